package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/errors"
	"github.com/zx06/keytar/internal/output"
)

// NewFindCommand creates the find command
func NewFindCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "find <service[/account]>",
		Short: "Best-effort lookup of one secret by service or service/account",
		Args:  argsBetween(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}

			st, xe := currentStore()
			if xe != nil {
				return xe
			}
			password, found, xe := st.FindPassword(args[0])
			if xe != nil {
				return xe
			}
			addr := address.Parse(args[0])
			if !found {
				return errors.New(errors.CodeNotFound, "credential not found", map[string]any{"service": args[0]})
			}
			return w.WriteOK(format, secretResult{Service: addr.Service, Account: addr.Account, Password: password})
		},
	}
}
