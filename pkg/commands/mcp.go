package commands

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/soulsync/pkg/commands/options"
	"tableflip.dev/soulsync/pkg/reply"
	"tableflip.dev/soulsync/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	co := &options.ChatOptions{}
	r := mcp.Runner{Name: "soulsync"}
	var transport string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: base.Wrap80("Launch an MCP server that exposes the mood journal, its analytics " +
			"and the SoulSync conversation as tools and resources."),
		Example: `
soulsync mcp
soulsync mcp --transport stdio
soulsync mcp --addr 0.0.0.0:9000 --tls-cert cert.pem --tls-key key.pem
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, svc, err := session(cmd.Context())
			if err != nil {
				return err
			}
			r.App = svc
			if !co.Offline {
				r.Remote = reply.NewRemote(settings.ReplyEndpoint, settings.ReplyModel, settings.ReplyTimeout)
			}

			switch t := mcp.Transport(strings.ToLower(strings.TrimSpace(transport))); t {
			case "", mcp.TransportHTTP:
				r.Transport = mcp.TransportHTTP
				r.OnListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s\n",
						mcp.ListenURL(a, r.Path, r.TLSCert != ""))
				}
			case mcp.TransportStdio:
				r.Transport = t
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", transport)
			}
			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "Transport to use: http or stdio.")
	cmd.Flags().StringVar(&r.Addr, "addr", mcp.DefaultAddr, "Listen address for the HTTP transport, use port 0 for a random port.")
	cmd.Flags().StringVar(&r.Path, "path", mcp.DefaultPath, "HTTP endpoint path.")
	cmd.Flags().StringVar(&r.TLSCert, "tls-cert", "", "TLS certificate file for HTTPS.")
	cmd.Flags().StringVar(&r.TLSKey, "tls-key", "", "TLS private key file for HTTPS.")
	options.AddOfflineArg(cmd, co)

	topLevel.AddCommand(cmd)
}
