package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/soulsync/pkg/commands/options"
	"tableflip.dev/soulsync/pkg/runner/stats"
)

func addStats(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "show daily mood averages and the journaling streak",
		Example: `
soulsync stats
soulsync stats --window 2w --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := session(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			s := stats.Stats{App: svc, Window: wo.Window, JSON: oo.JSON}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddWindowArgs(cmd, wo)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
