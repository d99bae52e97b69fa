package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format  string
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "export <hex>...",
		Short: "Serialise colours into a shareable format",
		Long: `Serialise colours as a palette link, CSS custom properties, an SVG strip,
plain text, a JSON array or an HTML embed snippet.

Unknown formats fall back to text.

Examples:
  swatch export -f css '#274060' '#335c81' '#65afff'
  swatch export -f url --base-url https://palettes.example 274060 335c81`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			palette, err := colour.ParsePalette(args)
			if err != nil {
				return err
			}
			opts := a.config.ExportOptions()
			if cmd.Flags().Changed("base-url") {
				opts.BaseURL = baseURL
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), export.Serialize(palette.ToHex(), export.ParseFormat(format), opts))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatText), "export format (url, css, svg, text, json, embed)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL for url and embed formats (default from SWATCH_BASE_URL)")
	return cmd
}

func newCollageCmd(a *app) *cobra.Command {
	var (
		output string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "collage -o <file.png> <hex>...",
		Short: "Render colours as a PNG image",
		Long: `Render colours as equal-width vertical bands in a PNG image.

Examples:
  swatch collage -o palette.png '#274060' '#335c81' '#65afff'
  swatch collage -o banner.png --width 1500 --height 500 274060 65afff`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			palette, err := colour.ParsePalette(args)
			if err != nil {
				return err
			}
			return a.writeCollage(output, palette.Colors, width, height)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write")
	cmd.Flags().IntVar(&width, "width", export.DefaultCollageWidth, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", export.DefaultCollageHeight, "image height in pixels")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// writeCollage renders colours to a PNG file at path.
func (a *app) writeCollage(path string, colours []colour.RGB, width, height int) error {
	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteCollagePNG(f, colours, width, height); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	a.logger.Info("collage written", "path", path, "colours", len(colours), "width", width, "height", height)
	return nil
}
