package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/soulsync/pkg/analytics"
)

// WindowOptions
type WindowOptions struct {
	Window string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVarP(&o.Window, "window", "w", analytics.DefaultWindow,
		`Analytics window in days and weeks, example: --window=2w3d.`)
}
