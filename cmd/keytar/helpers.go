package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zx06/keytar/internal/app"
	"github.com/zx06/keytar/internal/config"
	"github.com/zx06/keytar/internal/errors"
	"github.com/zx06/keytar/internal/output"
	"github.com/zx06/keytar/internal/store"
)

// Process-level hooks; tests swap them for an in-memory store and scripted stdin.
var (
	openStore = func(cfg config.File, logger *slog.Logger) (*store.Store, *errors.XError) {
		return app.OpenStore(cfg, logger)
	}
	stdin           io.Reader = os.Stdin
	stdinIsTerminal           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readHidden                = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
)

// parseOutputFormat parses and validates the output format string
func parseOutputFormat(s string) (output.Format, error) {
	f := output.Format(s)
	if !output.IsValid(f) {
		return "", errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": s, "allowed": output.Formats()})
	}
	return resolveAuto(f), nil
}

// resolveFormatForError resolves the format for error output
func resolveFormatForError(s string) output.Format {
	f := output.Format(s)
	if !output.IsValid(f) {
		f = output.FormatAuto
	}
	return resolveAuto(f)
}

// resolveAuto resolves "auto" format to appropriate format based on TTY
func resolveAuto(f output.Format) output.Format {
	if f != output.FormatAuto {
		return f
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return output.FormatTable
	}
	return output.FormatJSON
}

// normalizeErr normalizes any error to XError
func normalizeErr(err error) *errors.XError {
	if xe, ok := errors.As(err); ok {
		return xe
	}
	// Preserve original error message
	return errors.Wrap(errors.CodeInternal, err.Error(), nil, err)
}

// argsBetween is cobra.RangeArgs reporting an invalid-argument error code
func argsBetween(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return errors.InvalidArgument("wrong number of arguments", map[string]any{
				"usage": cmd.UseLine(),
				"got":   len(args),
			})
		}
		return nil
	}
}

// currentStore opens the credential store with the resolved config and logger
func currentStore() (*store.Store, *errors.XError) {
	return openStore(GlobalConfig.Resolved.File, GlobalConfig.Logger)
}

// readSecret reads a secret with hidden input on a TTY, otherwise one line from stdin
func readSecret(prompt io.Writer) (string, *errors.XError) {
	if stdinIsTerminal() {
		_, _ = fmt.Fprint(prompt, "Enter password: ")
		b, err := readHidden()
		_, _ = fmt.Fprintln(prompt)
		if err != nil {
			return "", errors.Wrap(errors.CodeInternal, "failed to read password", nil, err)
		}
		s := string(b)
		clear(b)
		return s, nil
	}
	line, ok, err := readLine()
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, "failed to read password from stdin", nil, err)
	}
	if !ok {
		return "", errors.InvalidArgument("no password provided; pass -p or pipe it on stdin", nil)
	}
	return line, nil
}

// confirm asks a y/N question on prompt and reads the answer from stdin
func confirm(prompt io.Writer, question string) (bool, *errors.XError) {
	_, _ = fmt.Fprintf(prompt, "%s [y/N]? ", question)
	line, _, err := readLine()
	if err != nil {
		return false, errors.Wrap(errors.CodeInternal, "failed to read confirmation", nil, err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine reads one line without its terminator; ok=false means stdin was empty.
func readLine() (string, bool, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, err
	}
	if err == io.EOF && line == "" {
		return "", false, nil
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}
