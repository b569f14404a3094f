package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/gitcz/internal/commitmsg"
)

const (
	// ServerName is reported to clients during initialization
	ServerName = "mcp-git-commit-generator"

	messageEndpoint = "/messages"
	shutdownTimeout = 10 * time.Second
)

// New builds the MCP server exposing the commit message tool
func New(gen *commitmsg.Generator, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTool(CommitTool(), commitHandler(gen))
	return s
}

// ServeStdio speaks MCP over stdin/stdout until ctx is cancelled or stdin
// closes. Stdout is reserved for protocol frames.
func ServeStdio(ctx context.Context, s *server.MCPServer) error {
	return serveStdio(ctx, s, os.Stdin, os.Stdout)
}

func serveStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(stdlog.New(log.Logger, "", 0))

	log.Info().Str("transport", "stdio").Msg("Serving MCP")
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// SSEServer hosts the MCP SSE transport on echo
type SSEServer struct {
	echo *echo.Echo
	sse  *server.SSEServer
	addr string
}

// NewSSEServer creates the HTTP server for the given MCP server
func NewSSEServer(s *server.MCPServer, host string, port int) *SSEServer {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			evt := log.Debug()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("HTTP request")
			return nil
		},
	}))

	sse := server.NewSSEServer(s,
		server.WithBaseURL("http://"+addr),
		server.WithMessageEndpoint(messageEndpoint),
	)

	srv := &SSEServer{echo: e, sse: sse, addr: addr}
	srv.setupRoutes()
	return srv
}

func (s *SSEServer) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	s.echo.GET("/sse", echo.WrapHandler(s.sse.SSEHandler()))
	// mcp-go announces the endpoint without a trailing slash; accept both.
	messages := echo.WrapHandler(s.sse.MessageHandler())
	s.echo.POST(messageEndpoint, messages)
	s.echo.POST(messageEndpoint+"/", messages)
}

// Handler exposes the routes for embedding and tests
func (s *SSEServer) Handler() http.Handler {
	return s.echo
}

// Addr is the host:port the server binds
func (s *SSEServer) Addr() string {
	return s.addr
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *SSEServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("transport", "sse").Str("addr", s.addr).Msg("Serving MCP")
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("sse transport: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down SSE server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.sse.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Closing SSE sessions failed")
	}
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		// Open event streams keep connections busy past the deadline.
		log.Warn().Err(err).Msg("Graceful shutdown timed out, closing connections")
		return s.echo.Close()
	}
	return nil
}
