package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpattn/verge/internal/config"
	"github.com/rpattn/verge/internal/logger"
)

var (
	cfg config.Config
	log *logger.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(".")
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		cfg = loaded

		log, err = logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	}
}
