package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect factwatch configuration",
		Long: `Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (PORT, FACTCHECK_API_KEY, SAFE_BROWSING_API_KEY, ...)
3. Config file (--config, $CONFIG_PATH or config/config.toml)
4. Defaults`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration with credentials masked",
		Args:  cobra.NoArgs,
		RunE:  a.runConfigShow,
	})
	return cmd
}

func (a *app) runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.errOut, "Configuration file: %s\n\n", a.configPath())
	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	_, err = a.out.Write(data)
	return err
}
