package wikicorpus

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"
)

func sampleInput(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "line %03d\n", i)
		if i%10 == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func TestSampleLines(t *testing.T) {
	buf := &bytes.Buffer{}
	n, err := SampleLines(strings.NewReader(sampleInput(100)), buf, 10, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Error sampling: %v", err)
	}
	if n != 10 {
		t.Fatalf("Expected 10 lines, got %v", n)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("Expected 10 output lines, got %v", len(lines))
	}
	seen := map[string]bool{}
	for _, l := range lines {
		if !strings.HasPrefix(l, "line ") || seen[l] {
			t.Errorf("Unexpected or repeated line %q", l)
		}
		seen[l] = true
	}
}

func TestSampleLinesDeterministic(t *testing.T) {
	run := func() string {
		buf := &bytes.Buffer{}
		if _, err := SampleLines(strings.NewReader(sampleInput(50)), buf, 5,
			rand.New(rand.NewSource(42))); err != nil {
			t.Fatalf("Error sampling: %v", err)
		}
		return buf.String()
	}
	if a, b := run(), run(); a != b {
		t.Errorf("Same seed gave different samples:\n%s\n%s", a, b)
	}
}

func TestSampleLinesShortInput(t *testing.T) {
	buf := &bytes.Buffer{}
	n, err := SampleLines(strings.NewReader(sampleInput(3)), buf, 10, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Error sampling: %v", err)
	}
	if n != 3 {
		t.Fatalf("Expected all 3 lines, got %v", n)
	}
	lines := strings.Fields(strings.ReplaceAll(buf.String(), "line ", "line_"))
	sort.Strings(lines)
	if strings.Join(lines, ",") != "line_000,line_001,line_002" {
		t.Errorf("Unexpected lines %v", lines)
	}
}

func TestSampleLinesZero(t *testing.T) {
	buf := &bytes.Buffer{}
	n, err := SampleLines(strings.NewReader("a\n"), buf, 0, rand.New(rand.NewSource(1)))
	if err != nil || n != 0 || buf.Len() != 0 {
		t.Errorf("Expected nothing sampled, got %v lines, %q, %v", n, buf.String(), err)
	}
}
