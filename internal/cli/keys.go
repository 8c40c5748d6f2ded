package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewKeysCommand groups maintenance of stored idempotency keys.
func NewKeysCommand(rt Runtime, opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Maintain stored idempotency keys",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired idempotency keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := openApp(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := a.PurgeIdempotencyKeys(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "prune keys", err)
			}
			return newPrinter(opts, cmd.OutOrStdout()).emit(map[string]int64{"deleted": n}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted %d expired key(s)\n", n)
				return err
			})
		},
	})
	return cmd
}
