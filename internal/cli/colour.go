package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
)

// visionAll selects every deficiency in the simulate command.
const visionAll = "all"

func newShadesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shades <hex>",
		Short: "Print the shade ramp of a colour",
		Long: `Print 20 darker and lighter variants of a colour in 10% steps.

Negative steps scale the colour towards black, positive steps move it
towards white. The 0% step is the colour itself.

Examples:
  swatch shades '#65afff'
  swatch shades 808080 --preview always`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := colour.ParseHex(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			preview := a.showPreview(out)
			headers := []string{"Step", "Hex"}
			if preview {
				headers = append(headers, "Swatch")
			}
			table := NewTable(headers...)

			steps := colour.ShadeSteps()
			for i, shade := range colour.Shades(base) {
				step := fmt.Sprintf("%+d%%", steps[i])
				table.AddRow(step, shade.Hex(), a.swatchWithText(out, shade, step))
			}
			_, err = table.WriteTo(out)
			return err
		},
	}
}

func newAdjustCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <hex> <percent>",
		Short: "Brighten or darken a colour",
		Long: `Shift every channel of a colour by 2.55 × percent, clamped to 0-255.

Use -- before negative percentages so they are not read as flags.

Examples:
  swatch adjust '#808080' 20
  swatch adjust '#808080' -- -20`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := colour.ParseHex(args[0])
			if err != nil {
				return err
			}
			percent, err := strconv.ParseFloat(strings.TrimSuffix(args[1], "%"), 64)
			if err != nil {
				return fmt.Errorf("invalid percent %q: %w", args[1], err)
			}

			adjusted := colour.AdjustBrightness(base, percent)
			a.logger.Debug("brightness adjusted", "from", base.Hex(), "percent", percent, "to", adjusted.Hex())
			a.printColours(cmd.OutOrStdout(), []colour.RGB{adjusted})
			return nil
		},
	}
}

func newSimulateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <type|all> <hex>...",
		Short: "Show colours as seen with a colour vision deficiency",
		Long: fmt.Sprintf(`Approximate how colours appear under a colour vision deficiency.

Types: none, %s.
Use "all" to print every type side by side.

Examples:
  swatch simulate protanopia '#ff0000' '#00ff00'
  swatch simulate all '#274060' '#65afff'`, colour.JoinVisionDeficiencies()),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			palette, err := colour.ParsePalette(args[1:])
			if err != nil {
				return err
			}

			var types []colour.VisionDeficiency
			if strings.EqualFold(args[0], visionAll) {
				types = colour.VisionDeficiencies()
			} else {
				var v colour.VisionDeficiency
				if err := v.Set(args[0]); err != nil {
					return err
				}
				types = []colour.VisionDeficiency{v}
			}

			out := cmd.OutOrStdout()
			headers := []string{"Original"}
			for _, v := range types {
				headers = append(headers, string(v))
			}
			table := NewTable(headers...)
			for _, c := range palette.Colors {
				row := []string{labelled(a, out, c)}
				for _, v := range types {
					row = append(row, labelled(a, out, colour.Simulate(c, v)))
				}
				table.AddRow(row...)
			}
			_, err = table.WriteTo(out)
			return err
		},
	}
}
