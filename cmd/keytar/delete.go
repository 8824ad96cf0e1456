package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/keytar/internal/errors"
	"github.com/zx06/keytar/internal/output"
)

// NewDeleteCommand creates the delete command
func NewDeleteCommand(w *output.Writer) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <service> <account>",
		Short: "Delete a secret",
		Args:  argsBetween(2, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			service, account := args[0], args[1]

			if !yes {
				ok, xe := confirm(w.Err, "Are you sure you want to delete this password")
				if xe != nil {
					return xe
				}
				if !ok {
					deleted := false
					return w.WriteOK(format, changeResult{Service: service, Account: account, Deleted: &deleted})
				}
			}

			st, xe := currentStore()
			if xe != nil {
				return xe
			}
			deleted, xe := st.DeletePassword(service, account)
			if xe != nil {
				return xe
			}
			if !deleted {
				return errors.New(errors.CodeNotFound, "credential not found", map[string]any{"service": service, "account": account})
			}
			return w.WriteOK(format, changeResult{Service: service, Account: account, Deleted: &deleted})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
