package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

var (
	oo = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "soulsync",
		Short: base.Wrap80("A calm companion for talking things through and keeping a mood journal."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addChat(topLevel)
	addHistory(topLevel)
	addNewChat(topLevel)
	addJournal(topLevel)
	addStats(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addClear(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
}
