// File: cmd/root.go
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/socklens/socklens/internal/config"
	"github.com/socklens/socklens/internal/mwapi"
	"github.com/socklens/socklens/internal/observability"
	"github.com/socklens/socklens/internal/wiki"
)

var (
	cfgFile string
	// appConfig holds the fully-resolved configuration after PersistentPreRunE.
	appConfig config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "socklens",
	Short: "socklens inspects a wiki's history for sockpuppetry and category membership.",
	// Version is set at build time. See cmd/version.go.
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Runs before any command: load config, then bring up logging.
		if err := initializeConfig(); err != nil {
			return err
		}

		if err := viper.Unmarshal(&appConfig); err != nil {
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "socklens"})
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
		observability.InitializeLogger(appConfig.Logger)

		observability.GetLogger().Debug("starting socklens",
			zap.String("version", Version),
			zap.String("site", appConfig.Wiki.Site))
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	defer observability.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newSockInfoCmd())
	rootCmd.AddCommand(newIPAnalysisCmd())
	rootCmd.AddCommand(newBlockTimelineCmd())
	rootCmd.AddCommand(newCatGraphCmd())
}

// initializeConfig reads the config file and environment.
func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "socklens"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SOCKLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars carry it.
	}
	return nil
}

// newWiki builds a fresh facade for one command invocation. Each invocation
// gets its own instance (and its own request id); nothing is shared.
func newWiki() (*wiki.Wiki, error) {
	client, err := mwapi.NewHTTPClient(appConfig.Wiki, appConfig.Client, observability.GetLogger())
	if err != nil {
		return nil, err
	}
	return wiki.New(client, observability.GetLogger()), nil
}
