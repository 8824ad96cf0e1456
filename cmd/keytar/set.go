package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/keytar/internal/output"
)

// NewSetCommand creates the set command
func NewSetCommand(w *output.Writer) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "set <service> <account>",
		Short: "Store (or overwrite) a secret",
		Args:  argsBetween(2, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}

			secret := password
			if !cmd.Flags().Changed("password") {
				s, xe := readSecret(w.Err)
				if xe != nil {
					return xe
				}
				secret = s
			}

			st, xe := currentStore()
			if xe != nil {
				return xe
			}
			stored, xe := st.SetPassword(args[0], args[1], secret)
			if xe != nil {
				return xe
			}
			return w.WriteOK(format, changeResult{Service: args[0], Account: args[1], Stored: &stored})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Secret value; prompted (hidden) on a TTY or read from stdin when omitted")
	return cmd
}
