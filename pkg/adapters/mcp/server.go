package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/svgo"
	"github.com/aretw0/svgo/pkg/domain"
	"github.com/aretw0/svgo/pkg/plugins"
	"github.com/aretw0/svgo/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PluginsURI is the resource listing the registered plugins.
const PluginsURI = "svgo://plugins"

// OptimizeResult is returned by the optimize_svg tool.
type OptimizeResult struct {
	Data          string `json:"data" jsonschema_description:"The optimized document"`
	OriginalSize  int    `json:"originalSize" jsonschema_description:"Size of the input in bytes"`
	OptimizedSize int    `json:"optimizedSize" jsonschema_description:"Size of the output in bytes"`
}

// PluginInfo describes a registered plugin.
type PluginInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// Server exposes the optimizer as an MCP server.
type Server struct {
	registry  *registry.Registry
	base      []svgo.Option
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. opts apply to every
// optimization before the tool arguments.
func NewServer(reg *registry.Registry, opts ...svgo.Option) *Server {
	if reg == nil {
		reg = plugins.NewRegistry()
	}
	s := &Server{
		registry:  reg,
		base:      opts,
		mcpServer: server.NewMCPServer("svgo-mcp", strings.TrimSpace(svgo.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	optimizeTool := mcp.NewTool("optimize_svg",
		mcp.WithDescription("Optimize an SVG document and return the smaller markup."),
		mcp.WithString("svg", mcp.Required(), mcp.Description("The SVG document")),
		mcp.WithBoolean("pretty", mcp.Description("Indent the output (default true)")),
		mcp.WithNumber("precision", mcp.Description("Number of decimals kept in numeric values (default 3)")),
		mcp.WithBoolean("multipass", mcp.Description("Repeat the pipeline while the output shrinks")),
		mcp.WithString("plugins", mcp.Description("Comma separated plugin names (default preset-default)")),
	)
	s.mcpServer.AddTool(optimizeTool, s.handleOptimize)

	s.mcpServer.AddTool(mcp.NewTool("list_plugins",
		mcp.WithDescription("List the available optimization plugins."),
	), s.handleListPlugins)
}

func (s *Server) handleOptimize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("svg")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := slices.Clone(s.base)
	opts = append(opts, svgo.WithRegistry(s.registry))
	args := request.GetArguments()
	if _, ok := args["pretty"]; ok {
		opts = append(opts, svgo.WithPretty(request.GetBool("pretty", true)))
	}
	if _, ok := args["precision"]; ok {
		precision := request.GetInt("precision", 3)
		if precision < 0 || precision > 20 {
			return mcp.NewToolResultError(fmt.Sprintf("precision must be between 0 and 20, got %d", precision)), nil
		}
		opts = append(opts, svgo.WithFloatPrecision(precision))
	}
	if request.GetBool("multipass", false) {
		opts = append(opts, svgo.WithMultipass(true))
	}
	if list := request.GetString("plugins", ""); list != "" {
		var names []string
		for _, n := range strings.Split(list, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		opts = append(opts, svgo.WithPlugins(names...))
	}

	out, err := svgo.Optimize(input, opts...)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSVG) || errors.Is(err, domain.ErrUnknownPlugin) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		slog.Error("MCP optimize failed", "err", err)
		return nil, fmt.Errorf("optimize failed: %w", err)
	}

	jsonBytes, _ := json.Marshal(OptimizeResult{
		Data:          out.Data,
		OriginalSize:  len(input),
		OptimizedSize: len(out.Data),
	})
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) pluginInfos() []PluginInfo {
	list := s.registry.List()
	infos := make([]PluginInfo, 0, len(list))
	for _, p := range list {
		infos = append(infos, PluginInfo{
			Name:        p.Name,
			Description: p.Description,
			Default:     slices.Contains(plugins.DefaultPreset, p.Name),
		})
	}
	return infos
}

func (s *Server) handleListPlugins(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, _ := json.Marshal(s.pluginInfos())
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(PluginsURI, "Optimization plugins",
		mcp.WithMIMEType("application/json"),
	), s.readPlugins)
}

func (s *Server) readPlugins(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, _ := json.Marshal(s.pluginInfos())
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      PluginsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
