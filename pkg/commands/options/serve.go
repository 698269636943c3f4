package options

import (
	"github.com/spf13/cobra"
)

// ServeOptions
type ServeOptions struct {
	Addr string
}

func AddServeArgs(cmd *cobra.Command, o *ServeOptions) {
	cmd.Flags().StringVar(&o.Addr, "addr", "",
		`Listen address, defaults to server.addr from the config (":8000").`)
}
