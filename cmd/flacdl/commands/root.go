package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"flacdl/internal/config"
	"flacdl/internal/services"
)

// NewRootCommand builds the flacdl command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "flacdl",
		Version: version,
		Short:   "A chunked music downloader with a built-in FLAC tag editor.",
		Long: fmt.Sprintf(`flacdl (v%s)

Downloads audio over parallel HTTP range requests, falling back to a single
stream when the server does not cooperate, and embeds title, artist, album,
lyrics and cover art without re-encoding.`, version),
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", config.DefaultConfigFile, "Path to the JSON configuration file")
	flags.String("download-location", "", "Directory to save downloads")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("user-agent", "", "User-Agent header for requests")
	flags.String("referer", "", "Referer header for requests")
	flags.Int("retries", -1, "Maximum failed attempts per range (0 = unlimited)")
	flags.Float64("rps", -1, "Maximum requests per second (0 = unlimited)")

	root.AddCommand(
		NewDownloadCommand(),
		NewParamsCommand(),
		NewInspectCommand(),
		NewTagCommand(),
	)
	return root
}

// initConfigAndServices loads configuration, applies command line overrides
// and wires the services.
func initConfigAndServices(cmd *cobra.Command) (*config.Config, *services.ServiceContainer, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := services.NewConfigService().LoadConfig(configFile)
	if err != nil {
		return nil, nil, err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	container := services.NewServiceContainer(cfg, &http.Client{})
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		container.Logger.SetDebugMode(true)
	}
	return cfg, container, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if v, _ := flags.GetString("download-location"); v != "" {
		cfg.DownloadLocation = v
	}
	if v, _ := flags.GetString("user-agent"); v != "" {
		cfg.UserAgent = v
	}
	if v, _ := flags.GetString("referer"); v != "" {
		cfg.Referer = v
	}
	if v, _ := flags.GetInt("retries"); v >= 0 {
		cfg.MaxRetryAttempts = v
	}
	if v, _ := flags.GetFloat64("rps"); v >= 0 {
		cfg.RequestsPerSecond = v
	}
}
