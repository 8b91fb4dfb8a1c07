package polar

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseSingleLine(t *testing.T) {
	m, err := ParseString("10\t90\t6\t0\t0\t180\t3")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(m.Bands) != 1 || m.Bands[0].WindSpeed != 10 {
		t.Fatalf("bands = %v, want [10]", m.WindSpeeds())
	}
	want := []AnchorPoint{{0, 0}, {90, 6}, {180, 3}}
	got := m.Bands[0].AnchorPoints
	if len(got) != len(want) {
		t.Fatalf("anchors = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("anchor %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseCommentsSpacesAndOrdering(t *testing.T) {
	input := strings.Join([]string{
		"! header line",
		"   ! indented comment",
		"",
		"20  0 0  45 7.1  180 6",
		"6\t0\t0\t45\t4.2\t180\t3.5",
	}, "\n")

	m, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got := m.WindSpeeds(); len(got) != 2 || got[0] != 6 || got[1] != 20 {
		t.Fatalf("WindSpeeds() = %v, want [6 20]", got)
	}
	if got := m.Band(20).AnchorPoints[1].BoatSpeed; got != 7.1 {
		t.Fatalf("band 20 speed at 45 = %v, want 7.1", got)
	}
}

func TestParseFormatErrors(t *testing.T) {
	cases := []string{
		"10\t0\t0\t90",
		"10\t0",
		"10",
		"10\t0\t0\t90\t5\t90\t6",
		"10\t0\t0\t180\t5\n10\t0\t1\t180\t6",
	}
	for _, in := range cases {
		_, err := ParseString(in)
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("ParseString(%q) err = %v, want FormatError", in, err)
		}
	}
}

func TestParseNumericErrors(t *testing.T) {
	cases := []string{
		"ten\t0\t0",
		"10\tzero\t0",
		"10\t0\tfast",
		"10\t0\tNaN",
		"10\t0\t+Inf",
	}
	for _, in := range cases {
		_, err := ParseString(in)
		var ne *NumericError
		if !errors.As(err, &ne) {
			t.Errorf("ParseString(%q) err = %v, want NumericError", in, err)
		}
	}
}

func TestParseErrorReportsLine(t *testing.T) {
	_, err := ParseString("! header\n10\t0\t0\t180\t3\n12\t0\t0\t90")
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FormatError", err)
	}
	if fe.Line != 3 {
		t.Fatalf("Line = %d, want 3", fe.Line)
	}
}

func TestParseEmptyInput(t *testing.T) {
	m, err := ParseString("! only a header\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !m.IsEmpty() {
		t.Fatalf("bands = %v, want none", m.WindSpeeds())
	}
}

func TestSerializeFormat(t *testing.T) {
	m := NewModel(curveOf(12, 0, 0, 52.5, 6.25, 180, 5), curveOf(6, 0, 0, 180, 3))
	out, err := SerializeString(m, "Test boat")
	if err != nil {
		t.Fatalf("SerializeString: %v", err)
	}
	want := "! Test boat\n6\t0\t0\t180\t3\n12\t0\t0\t52.5\t6.25\t180\t5\n"
	if out != want {
		t.Fatalf("SerializeString =\n%q\nwant\n%q", out, want)
	}
}

func TestSerializeRejectsEmptyBand(t *testing.T) {
	m := NewModel(&AnchorCurve{WindSpeed: 8})
	if _, err := SerializeString(m); err == nil {
		t.Fatal("expected error for band without anchors")
	}
}

func TestRoundTrip(t *testing.T) {
	m := NewModel(
		curveOf(6, 0, 0, 38.2, 4.13, 90, 5.61, 150, 4.9, 180, 3.3),
		curveOf(12, 0, 0, 41, 5.92, 95.5, 7.04, 180, 6.1),
		curveOf(20, 0, 0, 180, 8.333333333),
	)
	text, err := SerializeString(m)
	if err != nil {
		t.Fatalf("SerializeString: %v", err)
	}
	back, err := ParseString(text)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	if len(back.Bands) != len(m.Bands) {
		t.Fatalf("band count = %d, want %d", len(back.Bands), len(m.Bands))
	}
	for i, b := range m.Bands {
		got := back.Bands[i]
		if got.WindSpeed != b.WindSpeed || len(got.AnchorPoints) != len(b.AnchorPoints) {
			t.Fatalf("band %d = %+v, want %+v", i, got, b)
		}
		for j, p := range b.AnchorPoints {
			q := got.AnchorPoints[j]
			if math.Abs(p.Angle-q.Angle) > 1e-9 || math.Abs(p.BoatSpeed-q.BoatSpeed) > 1e-9 {
				t.Fatalf("band %v anchor %d = %+v, want %+v", b.WindSpeed, j, q, p)
			}
		}
	}
}

func TestSerializeHeaderStaysComment(t *testing.T) {
	m := NewModel(curveOf(10, 0, 0, 90, 6, 180, 3))
	text, err := SerializeString(m, "boat\n99 0 0", "second\r\nthird")
	if err != nil {
		t.Fatalf("SerializeString: %v", err)
	}
	want := "! boat\n! 99 0 0\n! second\n! third\n10\t0\t0\t90\t6\t180\t3\n"
	if text != want {
		t.Fatalf("SerializeString = %q, want %q", text, want)
	}

	back, err := ParseString(text)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if ws := back.WindSpeeds(); len(ws) != 1 || ws[0] != 10 {
		t.Fatalf("round trip bands = %v, want [10]", ws)
	}
}
