package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/factwatch/internal/config"
	"github.com/agenthands/factwatch/internal/server"
)

const shutdownTimeout = 10 * time.Second

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Serve the relay endpoints (/api/factcheck, /api/httpcheck), the search
page (/) and the URL check page (/httpcheck).

Example:
  FACTCHECK_API_KEY=... SAFE_BROWSING_API_KEY=... factwatch serve --addr :3000`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}
	cmd.Flags().String("addr", "", "listen address (default: :<server.port>)")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	addr, err := listenAddr(cfg, a.v.GetString("addr"))
	if err != nil {
		return err
	}

	logger := a.logger(cfg)
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.FactCheck.APIKey == "" {
		logger.Warn("claim search relay has no credential", "env", config.FactCheckKeyEnv)
	}
	if cfg.SafeBrowsing.APIKey == "" {
		logger.Warn("threat lookup relay has no credential", "env", config.SafeBrowsingKeyEnv)
	}

	srv := server.NewServer(cfg, logger)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", addr, "relay", cfg.RelayBaseURL())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// listenAddr resolves --addr. When it changes the port and no relay URL is
// configured, the pages are pointed at the new port.
func listenAddr(cfg *config.Config, flag string) (string, error) {
	if flag == "" {
		return fmt.Sprintf(":%d", cfg.Server.Port), nil
	}
	host, port, err := net.SplitHostPort(flag)
	if err != nil {
		return "", fmt.Errorf("invalid --addr %q: %w", flag, err)
	}
	if cfg.Server.RelayURL == "" {
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = "127.0.0.1"
		}
		cfg.Server.RelayURL = "http://" + net.JoinHostPort(host, port)
	}
	return flag, nil
}
