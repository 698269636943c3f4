package chat

import (
	"strings"
	"unicode"
)

// Tokenize splits text into words and the whitespace runs between them, so
// joining the tokens reproduces text exactly. "a  b" becomes ["a", "  ", "b"].
func Tokenize(text string) []string {
	var (
		out     []string
		b       strings.Builder
		inSpace bool
	)
	for i, r := range text {
		space := unicode.IsSpace(r)
		if i > 0 && space != inSpace && b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
		inSpace = space
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
