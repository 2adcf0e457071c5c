package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zx06/xsecret/internal/app"
	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/output"
)

func main() {
	exit := run()
	os.Exit(exit)
}

// run is the main entry point
func run() int {
	a := app.New(version, commit, date)
	w := output.New(os.Stdout, os.Stderr)

	root := newCLI(&a, &w)
	if err := root.Execute(); err != nil {
		xe := normalizeErr(err)
		format := resolveFormatForError(GlobalConfig.FormatStr)
		_ = w.WriteError(format, xe)
		return int(errors.ExitCodeFor(xe.Code))
	}

	return int(errors.ExitOK)
}

// newCLI builds the root command with every subcommand attached
func newCLI(a *app.App, w *output.Writer) *cobra.Command {
	root := NewRootCommand()

	root.AddCommand(NewSpecCommand(a, w))
	root.AddCommand(NewVersionCommand(a, w))
	root.AddCommand(NewSaveCommand(w))
	root.AddCommand(NewLoadCommand(w))
	root.AddCommand(NewDeleteCommand(w))
	root.AddCommand(NewResolveCommand(w))
	root.AddCommand(NewBackendCommand(w))
	root.AddCommand(NewProfileCommand(w))

	return root
}
