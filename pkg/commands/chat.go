package commands

import (
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/soulsync/pkg/commands/options"
	"tableflip.dev/soulsync/pkg/runner/chat"
)

func addChat(topLevel *cobra.Command) {
	co := &options.ChatOptions{}

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "send one message and print the reply",
		Long: base.Wrap80("Send a message to SoulSync. The reply comes from the configured " +
			"reply service, or from the local fallback when the service cannot be reached. " +
			"Both messages are saved to the conversation."),
		Example: `
soulsync chat "I feel anxious about tomorrow"
soulsync chat --no-stream --offline "hello"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, svc, err := session(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			c := chat.Chat{
				App:      svc,
				Settings: settings,
				Text:     strings.Join(args, " "),
				NoStream: co.NoStream,
				Offline:  co.Offline,
				JSON:     oo.JSON,
			}
			return oo.HandleError(c.Do(cmd.Context()))
		},
	}

	options.AddChatArgs(cmd, co)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addHistory(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "print the saved conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := session(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			h := chat.History{App: svc, JSON: oo.JSON}
			return oo.HandleError(h.Do(cmd.Context()))
		},
	}

	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addNewChat(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "new-chat",
		Short: "start a new conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := session(cmd.Context())
			if err != nil {
				return err
			}
			n := chat.NewChat{App: svc}
			return n.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
