package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // path to the SQLite backing store
	Catalog  string // optional price-catalog override file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the labportal CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "labportal",
		Short: "labportal - test-lab portal core",
		Long: `Offline-first core of the test-lab customer portal: products under
test, orders, messages and documents in a durable local store, plus the
multi-step service-request flows that write into it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyConfig(opts, cmd)
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "labportal.db", "path to the portal database")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "", "price catalog file (defaults to built-in tables)")

	// Add subcommands
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewMessagesCommand(opts))
	cmd.AddCommand(NewDocumentsCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewRequestCommand(opts))
	cmd.AddCommand(NewEstimateCommand(opts))

	return cmd
}

// applyConfig fills unset flags from the optional labportal.yaml config
// file (current directory, then $HOME) and LABPORTAL_* environment
// variables. Explicit flags always win.
func applyConfig(opts *RootOptions, cmd *cobra.Command) {
	v := viper.New()
	v.SetConfigName("labportal")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.SetEnvPrefix("labportal")
	v.AutomaticEnv()

	// Missing config is fine; an unreadable one is only worth a debug line.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Debug("config file unreadable, using defaults", "error", err)
		}
	}

	flags := cmd.Flags()
	if !flags.Changed("db") && v.IsSet("db") {
		opts.Database = v.GetString("db")
	}
	if !flags.Changed("format") && v.IsSet("format") {
		opts.Format = v.GetString("format")
	}
	if !flags.Changed("catalog") && v.IsSet("catalog") {
		opts.Catalog = v.GetString("catalog")
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
