package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/shopkit"
	"github.com/dmitrymomot/shopkit/pkg/config"
	"github.com/dmitrymomot/shopkit/pkg/logger"
)

var (
	envFile string
	verbose bool
	timeout time.Duration

	app *shopkit.App
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Command-line storefront client",
	Long: `shopctl drives a storefront API from the terminal.

It signs in, browses the catalog, manages the cart and starts checkout
against the store configured via SHOPKIT_BASE_URL (or a .env file).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := config.LoadEnv(envFile); err != nil {
				return err
			}
		}

		cfg, err := shopkit.LoadConfig()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		log = logger.NewFromConfig(cfg.Log, logger.WithAttr(slog.String("app", "shopctl")))
		app, err = shopkit.New(cfg, shopkit.WithLogger(log))
		if err != nil {
			return fmt.Errorf("build client: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "per-command timeout")

	rootCmd.AddCommand(signInCmd, signOutCmd, whoamiCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(searchCmd, showCmd, homeCmd)
	rootCmd.AddCommand(ordersCmd, checkoutCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
