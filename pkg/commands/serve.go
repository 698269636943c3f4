package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/soulsync/pkg/commands/options"
	"tableflip.dev/soulsync/pkg/runner/serve"
	"tableflip.dev/soulsync/pkg/server"
	"tableflip.dev/soulsync/pkg/store"
)

func addServe(topLevel *cobra.Command) {
	so := &options.ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the reply backend that the chat talks to",
		Long: base.Wrap80("Serve POST /api/chat and forward conversations to an OpenAI-compatible " +
			"chat completions API. Configure it with LLM_API_KEY, LLM_API_BASE and LLM_MODEL, " +
			"either in the environment or in a .env file."),
		Example: `
LLM_API_KEY=sk-... soulsync serve
soulsync serve --addr 127.0.0.1:9000
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := store.LoadConfig()
			if err != nil {
				return err
			}
			addr := so.Addr
			if addr == "" {
				addr = settings.ServerAddr
			}
			s := serve.Serve{Addr: addr, Config: server.ConfigFromEnv(settings.ReplyTimeout)}
			return s.Do(cmd.Context())
		},
	}

	options.AddServeArgs(cmd, so)

	topLevel.AddCommand(cmd)
}
