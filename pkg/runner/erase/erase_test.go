package erase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/store"
)

func TestClear(t *testing.T) {
	tests := map[string]struct {
		yes     bool
		input   string
		want    error
		remains int
	}{
		"yes flag":     {yes: true, remains: 0},
		"answered y":   {input: "y\n", remains: 0},
		"answered no":  {input: "n\n", want: ErrDeclined, remains: 1},
		"empty answer": {input: "", want: ErrDeclined, remains: 1},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := app.Open(context.Background(), &store.Settings{Path: t.TempDir()}, "dark")
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if _, err := svc.AddEntry(journal.DefaultPrompt(), "note", 3); err != nil {
				t.Fatalf("add: %v", err)
			}
			c := Clear{App: svc, Yes: tc.yes, In: strings.NewReader(tc.input), Out: &bytes.Buffer{}}
			if err := c.Do(context.Background()); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if got := len(svc.Entries()); got != tc.remains {
				t.Fatalf("entries = %d, want %d", got, tc.remains)
			}
		})
	}
}
