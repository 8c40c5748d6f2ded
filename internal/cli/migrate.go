package cli

import (
	"fmt"
	"io"

	"github.com/sangkips/salonpro-api/internal/infrastructure/database"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rt Runtime, opts *RootOptions) *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and seed roles",
		Long: `Run schema migrations, then create the default permissions and roles.
When ADMIN_EMAIL and ADMIN_PASSWORD are set the first super-admin is created too.
Safe to run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := openApp(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := database.AutoMigrate(a.DB, a.Log); err != nil {
				return WrapExitError(ExitFailure, "migrate", err)
			}
			if !skipSeed {
				if err := database.SeedDefaultData(a.DB, a.Config.Admin, a.Log); err != nil {
					return WrapExitError(ExitFailure, "seed roles", err)
				}
			}

			result := map[string]interface{}{
				"migrated":     len(database.Models()),
				"roles_seeded": !skipSeed,
			}
			return newPrinter(opts, cmd.OutOrStdout()).emit(result, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Migrated %d tables\n", len(database.Models()))
				if err == nil && !skipSeed {
					_, err = fmt.Fprintln(w, "Seeded permissions and roles")
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "only migrate, do not seed roles")
	return cmd
}
