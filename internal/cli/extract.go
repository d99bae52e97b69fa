package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/export"
	"github.com/jmylchreest/swatch/internal/image"
)

// Palette output formats accepted by -f in addition to the export formats.
const (
	formatHex     = "hex"
	formatDetails = "details"
)

// extractOptions are the flags shared by extract and palette from-image.
type extractOptions struct {
	count     int
	algorithm string
	seed      uint64
}

func (o *extractOptions) register(flags *pflag.FlagSet) {
	flags.IntVarP(&o.count, "colours", "c", 5, "number of colours to extract (1-256)")
	flags.StringVarP(&o.algorithm, "algorithm", "a", string(colour.AlgorithmDominant),
		fmt.Sprintf("extraction algorithm (%s)", joinAlgorithms()))
	flags.Uint64Var(&o.seed, "seed", 0, "random seed for k-means initialisation")
}

func (o *extractOptions) config() colour.ExtractorConfig {
	return colour.ExtractorConfig{
		Algorithm:  colour.Algorithm(strings.ToLower(o.algorithm)),
		ColorCount: o.count,
		Seed:       o.seed,
	}
}

func joinAlgorithms() string {
	names := make([]string, 0, len(colour.ValidAlgorithms()))
	for _, alg := range colour.ValidAlgorithms() {
		names = append(names, string(alg))
	}
	return strings.Join(names, ", ")
}

// extractPalette loads source and extracts a palette from it.
func (a *app) extractPalette(cmd *cobra.Command, source string, opts *extractOptions) (*colour.Palette, error) {
	cfg := opts.config()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	extractor, err := colour.NewExtractor(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	loader := image.NewSmartLoader(a.config.HTTPTimeout, a.logger.Named("image"))
	if cache := a.config.ImageCache(); cache != nil {
		loader.WithCache(cache)
	}
	img, err := loader.Load(cmd.Context(), source)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	a.logger.Debug("extracting colours", "count", cfg.ColorCount, "algorithm", cfg.Algorithm)
	palette, err := extractor.Extract(img, cfg.ColorCount)
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}
	a.logger.Debug("extracted colours", "count", palette.Len())
	return palette, nil
}

// writePalette renders palette to w in the named format.
func (a *app) writePalette(w io.Writer, palette *colour.Palette, format string) error {
	switch strings.ToLower(format) {
	case "", formatHex:
		a.printColours(w, palette.Colors)
		return nil
	case formatDetails:
		data, err := palette.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to marshal palette: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	out := export.Serialize(palette.ToHex(), export.ParseFormat(format), a.config.ExportOptions())
	_, err := fmt.Fprintln(w, out)
	return err
}

func formatHelp() string {
	names := []string{formatHex, formatDetails}
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}
	return "output format (" + strings.Join(names, ", ") + ")"
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		opts   extractOptions
		format string
	)

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract a colour palette from an image",
		Long: `Extract a colour palette from an image.

The source may be an image file, a directory (a random image inside it is
used) or an http(s) URL. The dominant algorithm returns the most frequent
exact colours; kmeans clusters similar colours together.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  swatch extract wallpaper.jpg
  swatch extract -c 8 -a kmeans --seed 7 wallpaper.png
  swatch extract -f css https://example.com/photo.jpg
  swatch extract -f details ~/Pictures/wallpapers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			palette, err := a.extractPalette(cmd, args[0], &opts)
			if err != nil {
				return err
			}
			return a.writePalette(cmd.OutOrStdout(), palette, format)
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", formatHex, formatHelp())
	return cmd
}
