package options

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/soulsync/pkg/journal"
)

// EntryOptions
type EntryOptions struct {
	Mood   int
	Prompt int
}

func AddEntryArgs(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().IntVarP(&o.Mood, "mood", "m", int(journal.DefaultMood),
		fmt.Sprintf("Mood from %d (very low) to %d (great).", journal.MinMood, journal.MaxMood))
	cmd.Flags().IntVarP(&o.Prompt, "prompt", "p", 0,
		`Reflection prompt number, see "soulsync journal prompts".`)
}

// ListOptions
type ListOptions struct {
	Since string
	Limit int
}

func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().StringVar(&o.Since, "since", "",
		`Only entries inside a window, example: --since=1w.`)
	cmd.Flags().IntVarP(&o.Limit, "limit", "n", 0,
		"Show at most this many entries.")
}
