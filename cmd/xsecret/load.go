package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/xsecret/internal/app"
	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/output"
	"github.com/zx06/xsecret/internal/secret"
)

// NewLoadCommand creates the load command
func NewLoadCommand(w *output.Writer) *cobra.Command {
	var reveal bool
	var codecName string
	cmd := &cobra.Command{
		Use:   "load <service> <user>",
		Short: "Load a secret (prints only its size unless --reveal)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			codec, ok := secret.CodecByName(codecName)
			if !ok {
				return errors.New(errors.CodeCfgInvalid, "unknown codec", map[string]any{"codec": codecName})
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			res, xe := app.Load(st, args[0], args[1], reveal, codec)
			if xe != nil {
				return xe
			}
			defer secret.WipeString(&res.Value)
			return w.WriteOK(format, res)
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the secret itself")
	cmd.Flags().StringVar(&codecName, "codec", "whatever", "Text codec for --reveal: whatever|utf8|utf16le|latin1")
	return cmd
}
