// Command course-mcp serves a course catalog as MCP tools over streamable
// HTTP at /mcp. Point coursebot at it with an mcp.servers entry.
//
//	course-mcp --addr :8081 --catalog courses.yaml
//
// Without --catalog the built-in sample catalog is served.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/tools/catalog"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr, catalogPath string

	cmd := &cobra.Command{
		Use:          "course-mcp",
		Short:        "Serve a course catalog as MCP tools",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			debug.Init(debug.Settings{})

			c, err := catalog.Load(catalogPath)
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			slog.Info("course catalog MCP server starting", "addr", ln.Addr().String(), "courses", len(c.Courses()))
			return serve(ctx, ln, catalog.Handler(c, version))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8081", "listen address")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog YAML file (default: built-in sample)")
	return cmd
}

// serve runs h on ln until ctx is done.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
