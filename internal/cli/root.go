// Package cli provides the command-line interface for swatch.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/config"
	"github.com/jmylchreest/swatch/internal/version"
)

// previewWidth is the width of the colour blocks printed next to hex codes.
const previewWidth = 6

// previewMode controls when ANSI colour previews are printed.
type previewMode string

const (
	previewAuto   previewMode = "auto"
	previewAlways previewMode = "always"
	previewNever  previewMode = "never"
)

func (m *previewMode) String() string { return string(*m) }

func (m *previewMode) Set(s string) error {
	switch v := previewMode(strings.ToLower(s)); v {
	case previewAuto, previewAlways, previewNever:
		*m = v
		return nil
	}
	return fmt.Errorf("invalid preview mode %q (valid: auto, always, never)", s)
}

func (m *previewMode) Type() string { return "mode" }

// app carries state shared by every command of one invocation.
type app struct {
	dotEnv    string
	stateFile string
	verbose   bool
	quiet     bool
	preview   previewMode

	config config.Config
	logger hclog.Logger
}

// NewRootCmd builds the swatch command tree.
func NewRootCmd() *cobra.Command {
	a := &app{preview: previewAuto, logger: hclog.NewNullLogger()}

	root := &cobra.Command{
		Use:   "swatch",
		Short: "A colour palette editor",
		Long: `Swatch generates, edits and exports colour palettes.

Palettes can be randomised with locked colours, extracted from images,
previewed under colour vision deficiencies, expanded into shade ramps and
exported as CSS, SVG, JSON or shareable links. Palette edits are kept in a
session file with full undo and redo.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	flags.StringVar(&a.dotEnv, "env-file", ".env", "read SWATCH_* settings from this file if it exists")
	flags.StringVar(&a.stateFile, "state", "", "session file (default from SWATCH_STATE_FILE or the user cache directory)")
	flags.Var(&a.preview, "preview", "show colour previews (auto, always, never)")

	root.SetVersionTemplate(version.String() + "\n")

	root.AddCommand(
		newVersionCmd(),
		newShadesCmd(a),
		newAdjustCmd(a),
		newSimulateCmd(a),
		newExtractCmd(a),
		newExportCmd(a),
		newCollageCmd(a),
		newPaletteCmd(a),
	)
	return root
}

// setup resolves configuration and the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewBuilder().
		WithDotEnv(a.dotEnv).
		WithEnvConfig().
		Build()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.stateFile != "" {
		cfg.StateFile = a.stateFile
	}
	a.config = cfg

	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "swatch",
		Level:  a.logLevel(),
		Output: cmd.ErrOrStderr(),
	})
	a.logger.Debug("configuration loaded", "state_file", cfg.StateFile, "history_limit", cfg.HistoryLimit)
	return nil
}

// logLevel picks the log level. Flags win over configuration.
func (a *app) logLevel() hclog.Level {
	switch {
	case a.verbose:
		return hclog.Debug
	case a.quiet:
		return hclog.Error
	case a.config.LogLevel != hclog.NoLevel:
		return a.config.LogLevel
	default:
		return hclog.Info
	}
}

// showPreview reports whether colour previews should be written to w.
func (a *app) showPreview(w io.Writer) bool {
	switch a.preview {
	case previewAlways:
		return true
	case previewNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// swatch returns the preview block for c, or "" when previews are off.
func (a *app) swatch(w io.Writer, c colour.RGB) string {
	if !a.showPreview(w) {
		return ""
	}
	return colour.ColourPreview(c, previewWidth)
}

// swatchWithText returns the preview block for c with text centred on it, or "" when
// previews are off.
func (a *app) swatchWithText(w io.Writer, c colour.RGB, text string) string {
	if !a.showPreview(w) {
		return ""
	}
	return colour.ColourPreviewWithText(c, text, previewWidth)
}

// labelled returns the hex code of c, prefixed with its preview when previews are on.
func labelled(a *app, w io.Writer, c colour.RGB) string {
	if s := a.swatch(w, c); s != "" {
		return s + " " + c.Hex()
	}
	return c.Hex()
}

// printColours writes one colour per line as "<preview> #rrggbb".
func (a *app) printColours(w io.Writer, colours []colour.RGB) {
	preview := a.showPreview(w)
	for _, c := range colours {
		if preview {
			fmt.Fprintln(w, colour.FormatColourWithPreview(c, previewWidth))
		} else {
			fmt.Fprintln(w, c.Hex())
		}
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
