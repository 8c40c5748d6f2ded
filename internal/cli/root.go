// Package cli implements salonctl, the back-office maintenance tool.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/sangkips/salonpro-api/internal/app"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Runtime opens the application for a command. The returned func releases
// it.
type Runtime interface {
	Open(ctx context.Context, opts *RootOptions) (*app.App, func(), error)
}

// NewRootCommand creates the root command for salonctl.
func NewRootCommand(rt Runtime) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "salonctl",
		Short: "SalonPro back-office maintenance",
		Long:  "Run migrations, load seed data, print payroll and refresh stock alerts for a SalonPro database.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(rt, opts))
	cmd.AddCommand(NewSeedCommand(rt, opts))
	cmd.AddCommand(NewPayrollCommand(rt, opts))
	cmd.AddCommand(NewAlertsCommand(rt, opts))
	cmd.AddCommand(NewKeysCommand(rt, opts))

	return cmd
}
