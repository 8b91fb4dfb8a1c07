package polar

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// CommentPrefix marks header and comment lines in polar files.
const CommentPrefix = "!"

// DefaultHeader is written ahead of the data lines by Serialize.
var DefaultHeader = []string{
	"Polar performance table",
	"TWS\tTWA1\tBSP1\tTWA2\tBSP2 ...",
}

// Parse reads the polar text format. Lines whose trimmed content starts with
// "!" and blank lines are skipped. Any malformed line aborts the whole parse.
func Parse(r io.Reader) (*Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var curves []*AnchorCurve
	seen := make(map[float64]bool)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}

		curve, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		if seen[curve.WindSpeed] {
			return nil, &FormatError{Line: lineNo, Msg: fmt.Sprintf("duplicate wind speed %v", curve.WindSpeed)}
		}
		seen[curve.WindSpeed] = true
		curves = append(curves, curve)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read polar data: %w", err)
	}

	return NewModel(curves...), nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Model, error) {
	return Parse(strings.NewReader(s))
}

func parseLine(line string, lineNo int) (*AnchorCurve, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 3 || len(tokens)%2 == 0 {
		return nil, &FormatError{
			Line: lineNo,
			Msg:  fmt.Sprintf("expected wind speed followed by angle/speed pairs, got %d tokens", len(tokens)),
		}
	}

	ws, err := parseNumber(tokens[0], lineNo)
	if err != nil {
		return nil, err
	}

	curve := &AnchorCurve{WindSpeed: ws}
	for i := 1; i < len(tokens); i += 2 {
		angle, err := parseNumber(tokens[i], lineNo)
		if err != nil {
			return nil, err
		}
		speed, err := parseNumber(tokens[i+1], lineNo)
		if err != nil {
			return nil, err
		}
		if curve.HasAngle(angle) {
			return nil, &FormatError{Line: lineNo, Msg: fmt.Sprintf("duplicate angle %v", angle)}
		}
		curve.AnchorPoints = append(curve.AnchorPoints, AnchorPoint{Angle: angle, BoatSpeed: speed})
	}
	curve.sort()
	return curve, nil
}

func parseNumber(tok string, lineNo int) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &NumericError{Line: lineNo, Token: tok}
	}
	return v, nil
}

// Serialize writes the model in the polar text format: the header as "!"
// comment lines, then one tab separated line per band in wind speed order.
// A band without anchors cannot be represented and is an error.
func Serialize(w io.Writer, m *Model, header ...string) error {
	if len(header) == 0 {
		header = DefaultHeader
	}
	bw := bufio.NewWriter(w)
	for _, h := range header {
		// Every physical line of the header must stay a comment.
		for _, line := range strings.FieldsFunc(h, isLineBreak) {
			if _, err := fmt.Fprintf(bw, "%s %s\n", CommentPrefix, line); err != nil {
				return err
			}
		}
	}

	sorted := m.Clone()
	sorted.sort()
	for _, b := range sorted.Bands {
		if len(b.AnchorPoints) == 0 {
			return fmt.Errorf("band %s has no anchor points", formatNumber(b.WindSpeed))
		}
		b.sort()
		var sb strings.Builder
		sb.WriteString(formatNumber(b.WindSpeed))
		for _, p := range b.AnchorPoints {
			sb.WriteByte('\t')
			sb.WriteString(formatNumber(p.Angle))
			sb.WriteByte('\t')
			sb.WriteString(formatNumber(p.BoatSpeed))
		}
		sb.WriteByte('\n')
		if _, err := bw.WriteString(sb.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SerializeString is Serialize into a string.
func SerializeString(m *Model, header ...string) (string, error) {
	var sb strings.Builder
	if err := Serialize(&sb, m, header...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
