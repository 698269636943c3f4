package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/soulsync/pkg/runner/transfer"
)

func addExport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "export [file|dir|-]",
		Short: "export messages and journal entries as JSON",
		Example: `
soulsync export
soulsync export ~/backups
soulsync export - > soulsync.json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := session(cmd.Context())
			if err != nil {
				return err
			}
			e := transfer.Export{App: svc}
			if len(args) == 1 {
				e.Path = args[0]
			}
			return e.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "replace messages and entries from a SoulSync export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := session(cmd.Context())
			if err != nil {
				return err
			}
			i := transfer.Import{App: svc, Path: args[0]}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
