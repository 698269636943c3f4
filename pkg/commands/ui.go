package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/soulsync/pkg/commands/options"
	"tableflip.dev/soulsync/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	co := &options.ChatOptions{}
	var exportDir string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the terminal user interface",
		Example: `
soulsync ui
SOULSYNC_LOG=/tmp/soulsync.log soulsync ui --offline
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, svc, err := session(cmd.Context())
			if err != nil {
				return err
			}
			i := ui.UI{Settings: settings, App: svc, ExportDir: exportDir, Offline: co.Offline}
			return i.Do(cmd.Context())
		},
	}

	options.AddOfflineArg(cmd, co)
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "Directory the settings view exports into.")

	topLevel.AddCommand(cmd)
}
