package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agenthands/factwatch/internal/config"
	"github.com/agenthands/factwatch/internal/google"
	"github.com/agenthands/factwatch/internal/logging"
	"github.com/agenthands/factwatch/internal/relayclient"
	"github.com/agenthands/factwatch/internal/view"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// ExitError ends the process with Code without printing anything more.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	fmt.Fprintf(errOut, "Error: %v\n", err)
	return 1
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}
	a.v.SetEnvPrefix("FACTWATCH")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "factwatch",
		Short: "factwatch - fact-check claim search and URL threat lookup",
		Long: `factwatch searches published fact-checks and looks URLs up on the
Safe Browsing threat lists.

The web server relays both APIs and renders a search page and a URL check
page. The search and check commands run the same flows from a terminal,
through a running server or directly against Google.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.v.BindPFlags(cmd.Flags())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().String("config", "", "config file (default: $CONFIG_PATH or "+config.DefaultPath+")")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose output (same as --log-level debug)")

	root.AddCommand(
		a.versionCmd(),
		a.serveCmd(),
		a.searchCmd(),
		a.checkCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "factwatch %s\n", Version)
		},
	}
}

func (a *app) configPath() string {
	if p := a.v.GetString("config"); p != "" {
		return p
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return config.DefaultPath
}

// loadConfig reads the config file and env, then applies global flags.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath())
	if err != nil {
		return nil, err
	}
	if lvl := a.v.GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if a.v.GetBool("verbose") {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func (a *app) logger(cfg *config.Config) *slog.Logger {
	return logging.NewWithWriter(a.errOut, cfg.Logging.Level)
}

// relay picks how search and check reach the APIs: a running server's relay
// endpoints, or the Google APIs directly with --direct.
func (a *app) relay(ctx context.Context, cfg *config.Config) (view.Relay, error) {
	if a.v.GetBool("direct") {
		if a.v.GetString("server") != "" {
			return nil, errors.New("--server and --direct are mutually exclusive")
		}
		return google.New(ctx, cfg)
	}

	base := a.v.GetString("server")
	if base == "" {
		base = cfg.RelayBaseURL()
	}
	return relayclient.New(base, &http.Client{Timeout: cfg.HTTP.Timeout.Duration}), nil
}

func addRelayFlags(cmd *cobra.Command) {
	cmd.Flags().String("server", "", "base URL of a running factwatch server (default: configured relay URL)")
	cmd.Flags().Bool("direct", false, "call the Google APIs directly with the configured keys")
	cmd.Flags().Bool("json", false, "print JSON instead of text")
}
