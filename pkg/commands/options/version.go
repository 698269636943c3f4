package options

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// VersionOptions
type VersionOptions struct {
	Short  bool
	Output string
}

func AddVersionArgs(cmd *cobra.Command, o *VersionOptions) {
	cmd.Flags().BoolVarP(&o.Short, "short", "s", false,
		"Print just the version number.")
	cmd.Flags().StringVarP(&o.Output, "output", "o", goversion.JSON,
		"Output format. One of 'yaml' or 'json'.")
}

// Validate rejects output formats the version report cannot produce.
func (o *VersionOptions) Validate() error {
	switch o.Output {
	case goversion.JSON, goversion.YAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q, want json or yaml", o.Output)
}
