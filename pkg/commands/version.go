package commands

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"

	"tableflip.dev/soulsync/pkg/commands/options"
)

// Set at link time, e.g. -ldflags "-X tableflip.dev/soulsync/pkg/commands.version=v1.2.0".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func addVersion(topLevel *cobra.Command) {
	vo := &options.VersionOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the soulsync build version.",
		Long: `Print the version, commit and build date of this soulsync binary.

Builds installed with "go install" report the module version recorded by the
Go toolchain when no version was stamped at link time.`,
		Example: `
soulsync version
soulsync version -s
soulsync version -o yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := vo.Validate(); err != nil {
				return err
			}
			info := buildInfo()
			out := cmd.OutOrStdout()
			switch {
			case vo.Short:
				fmt.Fprintln(out, info.Version)
			case vo.Output == goversion.YAML:
				fmt.Fprint(out, info.ToYAML())
			default:
				fmt.Fprint(out, info.ToJSON())
			}
			return nil
		},
	}

	options.AddVersionArgs(cmd, vo)

	topLevel.AddCommand(cmd)
}

func buildInfo() *goversion.Info {
	info := goversion.New(version, commit, date)
	if info.Version != "dev" {
		return info
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	return info
}
