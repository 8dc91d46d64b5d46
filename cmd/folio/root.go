package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/internal/platform"
)

var (
	verbose bool
	cfgFile string
	envFile string
	cfg     *platform.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Content store for a portfolio site",
	Long: `Folio keeps the content of a portfolio site as a nested document.
Edit it by dotted path, save whole sections to a key-value sink and export
the result as an indented JSON file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		v := platform.NewViper()
		for flag, key := range map[string]string{
			"data":    "data_dir",
			"adapter": "adapter",
		} {
			if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
				return err
			}
		}

		// folio.yaml is looked up in the nearest folio directory above cwd.
		dir, err := platform.FindRoot(".")
		if err != nil {
			dir = "."
		}
		loaded, err := platform.LoadConfig(v, cfgFile, dir, envFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default ./folio.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before the config")
	rootCmd.PersistentFlags().StringP("data", "d", ".", "Data directory")
	rootCmd.PersistentFlags().String("adapter", platform.AdapterFS, "Persistence sink (memory, fs, redis, sqlite)")
}

// openRuntime wires folio from the loaded configuration.
func openRuntime() *platform.Runtime {
	opts, err := cfg.Options()
	if err != nil {
		fatal("Invalid configuration", err)
	}
	opts = append(opts, platform.WithLogger(slog.Default()))

	rt, err := platform.Open(cfg.DataDir, opts...)
	if err != nil {
		fatal("Failed to open folio", err)
	}
	return rt
}
