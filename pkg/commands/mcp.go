package commands

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport string
		httpAddr  string
		httpPath  string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server.",
		Long: `Launch an MCP server that exposes the agenda, tasks, routines, meetings and
notes of the configured user as tools and resources.`,
		Example: `
amal mcp
amal mcp --transport http --http-addr 127.0.0.1:0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := open(ctx)
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			runner := mcp.Runner{
				Service:          svc,
				Name:             "amal",
				Version:          version,
				HTTPListenAddr:   strings.TrimSpace(httpAddr),
				HTTPEndpointPath: strings.TrimSpace(httpPath),
			}
			switch t := mcp.Transport(strings.ToLower(strings.TrimSpace(transport))); t {
			case "", mcp.TransportStdio:
				runner.Transport = mcp.TransportStdio
			case mcp.TransportHTTP:
				runner.Transport = mcp.TransportHTTP
				runner.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "MCP HTTP server listening on http://%s%s\n", a, runner.HTTPEndpointPath)
				}
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", transport)
			}
			return runner.Do(ctx)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportStdio), "Transport to use: stdio or http.")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "127.0.0.1:8081", "Listen address for the HTTP transport.")
	cmd.Flags().StringVar(&httpPath, "http-path", "/mcp", "HTTP endpoint path.")

	topLevel.AddCommand(cmd)
}
