// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// ChatOptions control how replies are produced and shown.
type ChatOptions struct {
	NoStream bool
	Offline  bool
}

func AddChatArgs(cmd *cobra.Command, o *ChatOptions) {
	cmd.Flags().BoolVar(&o.NoStream, "no-stream", false,
		"Print the reply at once instead of token by token.")
	AddOfflineArg(cmd, o)
}

func AddOfflineArg(cmd *cobra.Command, o *ChatOptions) {
	cmd.Flags().BoolVar(&o.Offline, "offline", false,
		"Skip the reply service and answer with the local fallback.")
}
