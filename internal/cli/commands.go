package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jengzang/polar-backend-go/internal/polar"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newShowCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print every band of a polar file with its TWS range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}
			return writeShow(cmd.OutOrStdout(), m, tolerance(v))
		},
	}
}

func writeShow(w io.Writer, m *polar.Model, tol float64) error {
	ranges := polar.ComputeRanges(m.WindSpeeds())
	fmt.Fprintf(w, "%s\n", heading(fmt.Sprintf("%d bands, tolerance %s kts", len(m.Bands), formatKnots(tol))))
	for _, b := range m.Bands {
		fmt.Fprintf(w, "\n%s %s\n", heading(formatKnots(b.WindSpeed)+" kts"), labelStyle.Render(formatRange(ranges[b.WindSpeed])))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TWA\tBSP")
		for _, p := range b.AnchorPoints {
			fmt.Fprintf(tw, "%s\t%s\n", formatKnots(p.Angle), formatKnots(p.BoatSpeed))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func newEvalCommand() *cobra.Command {
	var tws, twa float64
	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Boat speed of the band nearest --tws at --twa",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}
			curve := m.NearestBand(tws)
			if curve == nil {
				return polar.ErrBandNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				labelStyle.Render(fmt.Sprintf("band %s kts, TWA %s:", formatKnots(curve.WindSpeed), formatKnots(twa))),
				formatKnots(polar.Evaluate(curve, twa)))
			return nil
		},
	}
	cmd.Flags().Float64Var(&tws, "tws", 0, "true wind speed in knots")
	cmd.Flags().Float64Var(&twa, "twa", 0, "true wind angle in degrees")
	cmd.MarkFlagRequired("tws")
	cmd.MarkFlagRequired("twa")
	return cmd
}

func newDensifyCommand() *cobra.Command {
	var tws float64
	cmd := &cobra.Command{
		Use:   "densify FILE",
		Short: "Print one band at every whole degree, anchors marked with *",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}
			curve := m.Band(tws)
			if curve == nil {
				return fmt.Errorf("%w: %s", polar.ErrBandNotFound, formatKnots(tws))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TWA\tBSP\t")
			for _, p := range polar.Densify(curve) {
				mark := ""
				if p.IsAnchor {
					mark = anchorStyle.Render("*")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", formatKnots(p.Angle), strconv.FormatFloat(p.BoatSpeed, 'f', 2, 64), mark)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&tws, "tws", 0, "wind speed of the band")
	cmd.MarkFlagRequired("tws")
	return cmd
}

func newRangesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ranges FILE",
		Short: "Print the exclusive TWS range owned by each band",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "BAND\tRANGE")
			for _, r := range polar.SortedRanges(m.WindSpeeds()) {
				fmt.Fprintf(tw, "%s\t%s\n", formatKnots(r.WindSpeed), formatRange(r))
			}
			return tw.Flush()
		},
	}
}

func newClassifyCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "classify FILE TWS...",
		Short: "Report the nearest band of each wind speed and whether it is within tolerance",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}
			bands := m.WindSpeeds()
			c := polar.NewClassifier(tolerance(v))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TWS\tBAND\tRANGE\t")
			for _, arg := range args[1:] {
				tws, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid wind speed %q", arg)
				}
				band := polar.ClassifyNearestBand(tws, bands)
				note := ""
				if !c.NearAnyBand(tws, bands) {
					note = warnStyle.Render("outside tolerance")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", formatKnots(tws), formatKnots(band), formatRange(polar.RangeFor(bands, band)), note)
			}
			return tw.Flush()
		},
	}
}

func newFmtCommand() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Rewrite a polar file in canonical form",
		Long: `fmt parses FILE and prints it back with bands sorted by wind speed and
anchors sorted by angle. With -w the file is rewritten in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			m, err := polar.Parse(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			var buf bytes.Buffer
			if err := polar.Serialize(&buf, m, headerLines(data)...); err != nil {
				return err
			}
			if !write {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if bytes.Equal(buf.Bytes(), data) {
				return nil
			}
			return os.WriteFile(args[0], buf.Bytes(), 0o644)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file")
	return cmd
}

// headerLines returns the comment lines that open a polar file, without the
// comment prefix.
func headerLines(data []byte) []string {
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, polar.CommentPrefix) {
			break
		}
		out = append(out, strings.TrimSpace(strings.TrimPrefix(line, polar.CommentPrefix)))
	}
	return out
}

func formatKnots(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRange(r polar.BandRange) string {
	if r.Unbounded() {
		return fmt.Sprintf("[%s, +inf)", formatKnots(r.MinTWS))
	}
	return fmt.Sprintf("[%s, %s)", formatKnots(r.MinTWS), formatKnots(r.MaxTWS))
}
