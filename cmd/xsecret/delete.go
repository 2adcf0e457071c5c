package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/xsecret/internal/app"
	"github.com/zx06/xsecret/internal/output"
)

// NewDeleteCommand creates the delete command
func NewDeleteCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <service> <user>",
		Short: "Delete every secret stored for service and user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			res, xe := app.Delete(st, args[0], args[1])
			if xe != nil {
				return xe
			}
			return w.WriteOK(format, res)
		},
	}
}
