package commands

import (
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/soulsync/pkg/commands/options"
	pkgjournal "tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/runner/journal"
)

func addJournal(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "journal",
		Aliases: []string{"j"},
		Short:   "write and read mood journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addJournalAdd(cmd)
	addJournalList(cmd)
	addJournalPrompts(cmd)

	topLevel.AddCommand(cmd)
}

func addJournalAdd(parent *cobra.Command) {
	eo := &options.EntryOptions{}

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "save a journal entry",
		Example: `
soulsync journal add --mood 4 "A long walk helped."
soulsync journal add -m 2 -p 3 "Deadlines."
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := session(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			a := journal.Add{
				App:    svc,
				Prompt: eo.Prompt,
				Mood:   pkgjournal.Mood(eo.Mood),
				Text:   strings.Join(args, " "),
				JSON:   oo.JSON,
			}
			return oo.HandleError(a.Do(cmd.Context()))
		},
	}

	options.AddEntryArgs(cmd, eo)
	base.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addJournalList(parent *cobra.Command) {
	lo := &options.ListOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list journal entries, newest first",
		Example: `
soulsync journal list --since 1w
soulsync journal list -n 5 --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := session(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			l := journal.List{App: svc, Since: lo.Since, Limit: lo.Limit, JSON: oo.JSON}
			return oo.HandleError(l.Do(cmd.Context()))
		},
	}

	options.AddListArgs(cmd, lo)
	base.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addJournalPrompts(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "list the reflection prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := journal.Prompts{}
			return p.Do(cmd.Context())
		},
	}

	parent.AddCommand(cmd)
}
