package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zx06/xsecret/internal/app"
	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/output"
	"github.com/zx06/xsecret/internal/secret"
)

type saveOptions struct {
	stdin    bool
	fromFile string
}

// NewSaveCommand creates the save command
func NewSaveCommand(w *output.Writer) *cobra.Command {
	opts := &saveOptions{}
	cmd := &cobra.Command{
		Use:   "save <service> <user>",
		Short: "Save a secret; reads from the terminal without echo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd, args[0], args[1], opts, w)
		},
	}
	cmd.Flags().BoolVar(&opts.stdin, "stdin", false, "Read the secret from stdin (one trailing newline is dropped)")
	cmd.Flags().StringVar(&opts.fromFile, "from-file", "", "Read the secret from a file, byte for byte")
	cmd.MarkFlagsMutuallyExclusive("stdin", "from-file")
	return cmd
}

func runSave(cmd *cobra.Command, service, user string, opts *saveOptions, w *output.Writer) error {
	format, err := parseOutputFormat(GlobalConfig.FormatStr)
	if err != nil {
		return err
	}
	raw, err := readSecret(cmd, opts)
	if err != nil {
		return err
	}
	v := secret.NewBytes(raw)
	secret.Wipe(raw)
	defer v.Wipe()

	st, err := openStore()
	if err != nil {
		return err
	}
	res, xe := app.Save(st, service, user, v)
	if xe != nil {
		return xe
	}
	return w.WriteOK(format, res)
}

func readSecret(cmd *cobra.Command, opts *saveOptions) ([]byte, error) {
	switch {
	case opts.fromFile != "":
		b, err := os.ReadFile(opts.fromFile)
		if err != nil {
			return nil, errors.Wrap(errors.CodeCfgInvalid, "failed to read secret file", map[string]any{"path": opts.fromFile}, err)
		}
		return b, nil
	case opts.stdin:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternal, "failed to read secret from stdin", nil, err)
		}
		return trimNewline(b), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New(errors.CodeCfgInvalid, "stdin is not a terminal; use --stdin or --from-file", nil)
	}
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Secret: ")
	b, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "failed to read secret from terminal", nil, err)
	}
	return b, nil
}

// trimNewline drops a single trailing "\n" or "\r\n" in place.
func trimNewline(b []byte) []byte {
	if bytes.HasSuffix(b, []byte("\r\n")) {
		b[len(b)-2], b[len(b)-1] = 0, 0
		return b[:len(b)-2]
	}
	if bytes.HasSuffix(b, []byte("\n")) {
		b[len(b)-1] = 0
		return b[:len(b)-1]
	}
	return b
}
