// Package cli implements the superapp command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/amimagid/ami-super-app/internal/config"
	"github.com/amimagid/ami-super-app/internal/logging"
	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DefaultConfigFile is read from the working directory unless --config is
// given. It is created with defaults on first run.
const DefaultConfigFile = "superapp.config"

// app carries the state shared by every subcommand.
type app struct {
	v         *viper.Viper
	version   string
	buildTime string

	cfg *config.AppConfig
	log *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd(version, buildTime string) *cobra.Command {
	a := &app{v: viper.New(), version: version, buildTime: buildTime}

	root := &cobra.Command{
		Use:   "superapp",
		Short: "Personal dashboard: health log, weekly tasks and team work status",
		Long: `Super App tracks a daily health log (weight, blood pressure, workouts),
weekly personal task lists and team work status reports. It serves a web
dashboard and a JSON API, and ships commands for bulk import and reporting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", DefaultConfigFile, "path to the XML config file")
	flags.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.String("env-file", ".env", "dotenv file loaded before the config")
	cobra.CheckErr(a.v.BindPFlag("config", flags.Lookup("config")))
	cobra.CheckErr(a.v.BindPFlag("log_level", flags.Lookup("log-level")))
	cobra.CheckErr(a.v.BindPFlag("env_file", flags.Lookup("env-file")))

	a.v.SetEnvPrefix("SUPERAPP")
	a.v.AutomaticEnv()

	root.AddCommand(
		newServeCmd(a),
		newImportCmd(a),
		newSetupDBCmd(a),
		newReportCmd(a),
		newWatchCmd(a),
	)
	return root
}

// Execute runs the command tree and exits non-zero on error.
func Execute(version, buildTime string) {
	if err := NewRootCmd(version, buildTime).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

// load reads .env, the XML config and flag overrides, then builds the
// logger.
func (a *app) load() error {
	if err := godotenv.Load(a.v.GetString("env_file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.LoadConfig(a.v.GetString("config"))
	if err != nil {
		return err
	}
	if lvl := a.v.GetString("log_level"); lvl != "" {
		cfg.Advanced.LogLevel = lvl
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Advanced.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) openStore(ctx context.Context) (*storage.Store, error) {
	store, err := storage.Open(ctx, a.cfg.Database, a.cfg.Advanced, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}
