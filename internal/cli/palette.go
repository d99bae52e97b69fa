package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/editor"
	"github.com/jmylchreest/swatch/internal/export"
	"github.com/jmylchreest/swatch/internal/state"
)

// formatTable is the default output of palette show.
const formatTable = "table"

func newPaletteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Edit the palette held in the session file",
		Long: `Edit a palette across invocations.

The palette, its locked positions and the full undo history are stored in the
session file (--state, SWATCH_STATE_FILE). A path ending in .xz is compressed.
A missing session starts from the default palette.

Positions are numbered from 1.

Examples:
  swatch palette new '#274060' '#335c81' '#65afff'
  swatch palette lock 2
  swatch palette random
  swatch palette undo
  swatch palette show --vision deuteranopia`,
	}

	cmd.AddCommand(
		newPaletteNewCmd(a),
		newPaletteShowCmd(a),
		a.mutation("random", "Randomise every unlocked colour", cobra.NoArgs,
			func(s *editor.Session, _ []string) error {
				s.Regenerate()
				return nil
			}),
		a.mutation("lock <position>...", "Toggle the lock on colours", cobra.MinimumNArgs(1),
			func(s *editor.Session, args []string) error {
				for _, arg := range args {
					i, err := parsePosition(arg, s.Len())
					if err != nil {
						return err
					}
					if err := s.ToggleLock(i); err != nil {
						return err
					}
				}
				return nil
			}),
		a.mutation("set <position> <hex>", "Replace the colour at a position", cobra.ExactArgs(2),
			func(s *editor.Session, args []string) error {
				i, err := parsePosition(args[0], s.Len())
				if err != nil {
					return err
				}
				c, err := colour.ParseHex(args[1])
				if err != nil {
					return err
				}
				return s.SetColor(i, c)
			}),
		a.mutation("remove <position>", "Remove the colour at a position", cobra.ExactArgs(1),
			func(s *editor.Session, args []string) error {
				i, err := parsePosition(args[0], s.Len())
				if err != nil {
					return err
				}
				removed, err := s.RemoveColor(i)
				if err != nil {
					return err
				}
				if !removed {
					a.logger.Warn("colour not removed", "reason", fmt.Sprintf("palette must keep at least %d colours", editor.MinPaletteSize))
				}
				return nil
			}),
		a.mutation("swap <position> <position>", "Swap two colours and their locks", cobra.ExactArgs(2),
			func(s *editor.Session, args []string) error {
				i, err := parsePosition(args[0], s.Len())
				if err != nil {
					return err
				}
				j, err := parsePosition(args[1], s.Len())
				if err != nil {
					return err
				}
				return s.Swap(i, j)
			}),
		a.mutation("add <hex>...", "Append colours to the palette", cobra.MinimumNArgs(1),
			func(s *editor.Session, args []string) error {
				p, err := colour.ParsePalette(args)
				if err != nil {
					return err
				}
				for _, c := range p.Colors {
					s.AddColor(c)
				}
				return nil
			}),
		a.mutation("undo", "Undo the last palette change", cobra.NoArgs,
			func(s *editor.Session, _ []string) error {
				if !s.Undo() {
					a.logger.Info("nothing to undo")
				}
				return nil
			}),
		a.mutation("redo", "Redo the last undone palette change", cobra.NoArgs,
			func(s *editor.Session, _ []string) error {
				if !s.Redo() {
					a.logger.Info("nothing to redo")
				}
				return nil
			}),
		newPaletteFromImageCmd(a),
		newPaletteExportCmd(a),
		newPaletteCollageCmd(a),
	)
	return cmd
}

// parsePosition converts a 1-based position argument to a 0-based index.
func parsePosition(arg string, n int) (int, error) {
	p, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: must be a number", arg)
	}
	if p < 1 || p > n {
		return 0, fmt.Errorf("%w: position %d (palette has %d colours)", editor.ErrIndexOutOfRange, p, n)
	}
	return p - 1, nil
}

// loadSession restores the saved session, starting a default one if none exists.
func (a *app) loadSession() (*editor.Session, *state.Store, error) {
	store := a.config.Store(a.logger)
	opts := a.config.SessionOptions(a.logger.Named("editor"))

	session, err := store.Load(opts...)
	if errors.Is(err, state.ErrNoSession) {
		a.logger.Debug("starting new session", "path", store.Path())
		session, err = editor.NewSession(colour.DefaultPalette(), opts...)
	}
	if err != nil {
		return nil, nil, err
	}
	return session, store, nil
}

// mutation builds a palette subcommand that edits the session and saves it.
func (a *app) mutation(use, short string, args cobra.PositionalArgs, edit func(*editor.Session, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, store, err := a.loadSession()
			if err != nil {
				return err
			}
			if err := edit(session, args); err != nil {
				return err
			}
			return a.saveAndShow(cmd, session, store)
		},
	}
}

func (a *app) saveAndShow(cmd *cobra.Command, session *editor.Session, store *state.Store) error {
	if err := store.Save(session); err != nil {
		return err
	}
	if a.quiet {
		return nil
	}
	return a.showSession(cmd, session, colour.VisionNone)
}

// showSession prints the palette as a table of positions, locks and names.
func (a *app) showSession(cmd *cobra.Command, session *editor.Session, vision colour.VisionDeficiency) error {
	out := cmd.OutOrStdout()
	preview := a.showPreview(out)

	headers := []string{"#", "Lock", "Hex", "Name"}
	if preview {
		headers = append(headers, "Swatch")
	}
	table := NewTable(headers...)

	shown := session.Display(vision)
	locks := session.Locks()
	for i, c := range session.Palette().Colors {
		lock := ""
		if locks[i] {
			lock = "locked"
		}
		table.AddRow(strconv.Itoa(i+1), lock, shown.Colors[i].Hex(), colour.Name(c), a.swatch(out, shown.Colors[i]))
	}
	if _, err := table.WriteTo(out); err != nil {
		return err
	}
	if v := colour.ParseVisionDeficiency(string(vision)); v != colour.VisionNone {
		fmt.Fprintf(out, "Simulating %s. Stored colours are unchanged.\n", v)
	}
	return nil
}

func newPaletteNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new [hex...]",
		Short: "Start a new session, discarding the current one",
		Long: fmt.Sprintf(`Start a new session from the given colours, or from the default palette
when none are given. At least %d colours are required.`, editor.MinPaletteSize),
		RunE: func(cmd *cobra.Command, args []string) error {
			palette := colour.DefaultPalette()
			if len(args) > 0 {
				var err error
				if palette, err = colour.ParsePalette(args); err != nil {
					return err
				}
			}
			session, err := editor.NewSession(palette, a.config.SessionOptions(a.logger.Named("editor"))...)
			if err != nil {
				return err
			}
			return a.saveAndShow(cmd, session, a.config.Store(a.logger))
		},
	}
}

func newPaletteShowCmd(a *app) *cobra.Command {
	var (
		vision colour.VisionDeficiency
		format string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _, err := a.loadSession()
			if err != nil {
				return err
			}
			if format == formatTable {
				return a.showSession(cmd, session, vision)
			}
			return a.writePalette(cmd.OutOrStdout(), session.Display(vision), format)
		},
	}

	cmd.Flags().Var(&vision, "vision", "simulate a colour vision deficiency ("+colour.JoinVisionDeficiencies()+")")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, hex, details, url, css, svg, text, json, embed)")
	return cmd
}

func newPaletteFromImageCmd(a *app) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "from-image <image>",
		Short: "Replace the palette with colours extracted from an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, store, err := a.loadSession()
			if err != nil {
				return err
			}
			palette, err := a.extractPalette(cmd, args[0], &opts)
			if err != nil {
				return err
			}
			if err := session.Replace(palette); err != nil {
				return fmt.Errorf("extracted palette cannot be edited: %w", err)
			}
			return a.saveAndShow(cmd, session, store)
		},
	}

	opts.register(cmd.Flags())
	return cmd
}

func newPaletteExportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serialise the current palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _, err := a.loadSession()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(),
				export.Serialize(session.Hex(), export.ParseFormat(format), a.config.ExportOptions()))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatURL), "export format (url, css, svg, text, json, embed)")
	return cmd
}

func newPaletteCollageCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "collage -o <file.png>",
		Short: "Render the current palette as a PNG image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _, err := a.loadSession()
			if err != nil {
				return err
			}
			return a.writeCollage(output, session.Palette().Colors, export.DefaultCollageWidth, export.DefaultCollageHeight)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
