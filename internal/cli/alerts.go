package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewAlertsCommand creates the alerts command group.
func NewAlertsCommand(rt Runtime, opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Inspect and refresh stock alerts",
	}
	cmd.AddCommand(newAlertsRefreshCommand(rt, opts))
	cmd.AddCommand(newAlertsListCommand(rt, opts))
	return cmd
}

func newAlertsRefreshCommand(rt Runtime, opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Raise low stock and expiry alerts, resolve cleared ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := openApp(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := a.Alerts.RefreshInventoryAlerts(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "refresh alerts", err)
			}
			return newPrinter(opts, cmd.OutOrStdout()).emit(result, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Created %d alert(s), resolved %d\n", result.Created, result.Resolved)
				return err
			})
		},
	}
}

func newAlertsListCommand(rt Runtime, opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List unresolved alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := openApp(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			alerts, err := a.Alerts.ListActiveAlerts(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "list alerts", err)
			}
			return newPrinter(opts, cmd.OutOrStdout()).emit(alerts, func(w io.Writer) error {
				if len(alerts) == 0 {
					_, err := fmt.Fprintln(w, "No open alerts")
					return err
				}
				for _, alert := range alerts {
					if _, err := fmt.Fprintf(w, "[%s] %s\n", alert.Type, alert.Message); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
