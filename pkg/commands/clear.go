package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/soulsync/pkg/commands/options"
	"tableflip.dev/soulsync/pkg/runner/erase"
)

func addClear(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "erase all messages, journal entries and the draft",
		Example: `
soulsync clear
soulsync clear --yes
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := session(cmd.Context())
			if err != nil {
				return err
			}
			c := erase.Clear{App: svc, Yes: co.Yes}
			return c.Do(cmd.Context())
		},
	}

	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
