package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPolar = `! Test boat
20	0	0	90	8.5	45	7	180	9
6	0	0	45	4	90	5.5	180	4
12	0	0	45	6	90	7	180	6.5
`

func writePolar(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boat.pol")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", writeConfig(t)))
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "polarctl.yaml")
	if err := os.WriteFile(path, []byte("tolerance: 2.5\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestEval(t *testing.T) {
	path := writePolar(t, testPolar)

	out, err := run(t, "eval", path, "--tws", "11", "--twa", "67.5")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(out, "band 12 kts") || !strings.HasSuffix(strings.TrimSpace(out), "6.5") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEvalRequiresFlags(t *testing.T) {
	path := writePolar(t, testPolar)
	if _, err := run(t, "eval", path, "--tws", "11"); err == nil {
		t.Fatal("expected error without --twa")
	}
}

func TestRanges(t *testing.T) {
	path := writePolar(t, testPolar)

	out, err := run(t, "ranges", path)
	if err != nil {
		t.Fatalf("ranges: %v", err)
	}
	for _, want := range []string{"[0, 9)", "[9, 16)", "[16, +inf)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDensify(t *testing.T) {
	path := writePolar(t, testPolar)

	out, err := run(t, "densify", path, "--tws", "12")
	if err != nil {
		t.Fatalf("densify: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 182 {
		t.Fatalf("got %d lines, want header + 181", len(lines))
	}
	if !strings.Contains(out, "6.49") || !strings.Contains(out, "6.50") {
		t.Fatalf("expected 6.49 at 67 degrees and the 6.50 anchor at 180:\n%s", out)
	}

	if _, err := run(t, "densify", path, "--tws", "13"); err == nil {
		t.Fatal("expected error for unknown band")
	}
}

func TestClassifyUsesTolerance(t *testing.T) {
	path := writePolar(t, testPolar)

	out, err := run(t, "classify", path, "11", "16")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(lines[1], "outside tolerance") {
		t.Errorf("11 kts should be within tolerance of 12: %q", lines[1])
	}
	if !strings.Contains(lines[2], "outside tolerance") {
		t.Errorf("16 kts should be outside tolerance: %q", lines[2])
	}

	out, err = run(t, "classify", path, "16", "--tolerance", "4")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if strings.Contains(out, "outside tolerance") {
		t.Errorf("16 kts should be within a 4 knot tolerance:\n%s", out)
	}
}

func TestFmtWrite(t *testing.T) {
	path := writePolar(t, testPolar)

	if _, err := run(t, "fmt", path, "-w"); err != nil {
		t.Fatalf("fmt: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "! Test boat\n" +
		"6\t0\t0\t45\t4\t90\t5.5\t180\t4\n" +
		"12\t0\t0\t45\t6\t90\t7\t180\t6.5\n" +
		"20\t0\t0\t45\t7\t90\t8.5\t180\t9\n"
	if string(got) != want {
		t.Fatalf("fmt -w wrote\n%q\nwant\n%q", got, want)
	}
}

func TestFmtRejectsMalformed(t *testing.T) {
	path := writePolar(t, "6\t0\t0\t45\n")
	if _, err := run(t, "fmt", path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestShow(t *testing.T) {
	path := writePolar(t, testPolar)

	out, err := run(t, "show", path)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"3 bands", "12 kts", "[9, 16)", "TWA"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHeaderLines(t *testing.T) {
	got := headerLines([]byte("\n! First\n!Second\n6\t0\t0\n! trailing\n"))
	if len(got) != 2 || got[0] != "First" || got[1] != "Second" {
		t.Fatalf("headerLines = %q", got)
	}
}
