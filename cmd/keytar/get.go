package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/keytar/internal/errors"
	"github.com/zx06/keytar/internal/output"
)

// NewGetCommand creates the get command
func NewGetCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <service> [account]",
		Short: "Read a secret; without account, list all credentials of the service",
		Args:  argsBetween(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}

			st, xe := currentStore()
			if xe != nil {
				return xe
			}

			service := args[0]
			if len(args) == 1 {
				recs, xe := st.FindCredentials(service)
				if xe != nil {
					return xe
				}
				return w.WriteOK(format, credentialList{Service: service, Credentials: recs})
			}

			account := args[1]
			password, found, xe := st.GetPassword(service, account)
			if xe != nil {
				return xe
			}
			if !found {
				return errors.New(errors.CodeNotFound, "credential not found", map[string]any{"service": service, "account": account})
			}
			return w.WriteOK(format, secretResult{Service: service, Account: account, Password: password})
		},
	}
}
