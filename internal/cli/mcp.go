package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/svgo"
	"github.com/aretw0/svgo/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

type mcpOptions struct {
	transport string
	port      int
}

func newMCPCommand(g *globals) *cobra.Command {
	o := &mcpOptions{}
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the optimizer as MCP tools (optimize_svg, list_plugins) and the
svgo://plugins resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		Args: cobra.NoArgs,
		RunE: traced(func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, g)
		}),
	}

	cmd.Flags().StringVar(&o.transport, "transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().IntVar(&o.port, "port", 8080, "Port to listen on (only for SSE)")
	return cmd
}

func (o *mcpOptions) run(cmd *cobra.Command, g *globals) error {
	if o.transport != "stdio" && o.transport != "sse" {
		return fmt.Errorf("unknown transport %q (want stdio or sse)", o.transport)
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if _, err := svgo.New(svgo.WithConfig(cfg)); err != nil {
		return err
	}
	srv := mcp.NewServer(nil, svgo.WithConfig(cfg), svgo.WithLogger(g.logger))

	if o.transport == "stdio" {
		g.logger.Info("Starting svgo MCP Server (Stdio)")
		return srv.ServeStdio()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g.logger.Info("Starting svgo MCP Server (SSE)", "port", o.port)
	if err := srv.ServeSSE(ctx, o.port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	g.logger.Info("MCP Server stopped gracefully")
	return nil
}
