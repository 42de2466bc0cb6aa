package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hrygo/recognizers/internal/profile"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.2.0"

func newRootCmd() *cobra.Command {
	v := viper.New()
	profile.SetDefaults(v)

	rootCmd := &cobra.Command{
		Use:   "recognizers",
		Short: "Recognize durations, relative date-times and currency amounts in free text",
		Long: `recognizers finds expressions such as "5 hours", "about 3 days ago" or "$3.50"
in English and Portuguese text and resolves them to canonical values.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if path := v.GetString("config"); path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return errors.Wrapf(err, "read config %s", path)
				}
			}
			setupLogger(cmd, v.GetString("mode"))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	flags.String("data", "", "data directory")
	flags.String("driver", "sqlite", `database driver, "sqlite" or "postgres"`)
	flags.String("dsn", "", "database source name")
	flags.Bool("history", true, "persist recognitions")
	flags.Duration("history-retention", 30*24*time.Hour, "prune history older than this, 0 keeps everything")
	flags.StringSlice("cultures", nil, "cultures to load, all when empty")
	flags.String("default-culture", "en-us", "culture of requests that name none")
	flags.String("timezone", "UTC", "IANA timezone of the reference instant")
	flags.Int("cache-size", 1000, "outcome cache entries")
	flags.Duration("cache-ttl", 5*time.Minute, "outcome cache entry lifetime")
	flags.Int("concurrency", 4, "batch recognition workers")
	flags.Int("max-text-bytes", 1<<20, "largest accepted document")
	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(err)
		}
	})

	rootCmd.AddCommand(
		newServeCmd(v),
		newRecognizeCmd(v),
		newHistoryCmd(v),
		newCulturesCmd(v),
	)
	return rootCmd
}

func setupLogger(cmd *cobra.Command, mode string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if mode == "prod" {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
