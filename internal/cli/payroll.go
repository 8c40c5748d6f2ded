package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sangkips/salonpro-api/internal/application/service"
	"github.com/sangkips/salonpro-api/pkg/money"
	"github.com/spf13/cobra"
)

// NewPayrollCommand creates the payroll command.
func NewPayrollCommand(rt Runtime, opts *RootOptions) *cobra.Command {
	var (
		month  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Print the commission payroll for a month",
		Long: `Print each worker's commission for a calendar month in the business
timezone, with lifetime totals. --month defaults to the current month.
--xlsx writes the same report as a spreadsheet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := openApp(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			loc := a.Config.App.Location()
			target := time.Now().In(loc)
			if month != "" {
				target, err = time.ParseInLocation("2006-01", month, loc)
				if err != nil {
					return errorf(ExitCommandError, "invalid --month %q: use YYYY-MM", month)
				}
			}

			if output != "" {
				report, err := a.Reports.ExportPayroll(cmd.Context(), target)
				if err != nil {
					return WrapExitError(ExitFailure, "export payroll", err)
				}
				if err := writeFile(output, report.Data); err != nil {
					return WrapExitError(ExitCommandError, "write report", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
				return err
			}

			summary, err := a.Payroll.MonthlySummary(cmd.Context(), target)
			if err != nil {
				return WrapExitError(ExitFailure, "compute payroll", err)
			}
			return newPrinter(opts, cmd.OutOrStdout()).emit(summary, func(w io.Writer) error {
				return writePayrollTable(w, summary)
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM")
	cmd.Flags().StringVar(&output, "xlsx", "", "write an Excel workbook to this path instead of printing")
	return cmd
}

func writePayrollTable(w io.Writer, summary *service.PayrollSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Payroll %s\t\t\t\t\n", summary.Month)
	fmt.Fprintln(tw, "Worker\tRate %\tServices\tMonth\tLifetime\t")
	for _, we := range summary.Workers {
		fmt.Fprintf(tw, "%s\t%.2f\t%d\t%s\t%s\t\n",
			we.Worker.Name,
			we.Worker.CommissionRate,
			we.ServicesPerformed,
			money.Format(we.Earnings.CurrentMonthEarnings),
			money.Format(we.Earnings.TotalEarnings),
		)
	}
	fmt.Fprintf(tw, "Total\t\t\t%s\t\t\n", money.Format(summary.TotalCents))
	return tw.Flush()
}
