package wikicorpus

import (
	"bufio"
	"bytes"
	"io"
	"math/rand"
)

// SampleLines copies a uniform random sample of n non-blank lines from
// r to w, in random order. All lines are copied, shuffled, when r has
// n or fewer. It returns the number of lines written.
func SampleLines(r io.Reader, w io.Writer, n int, rng *rand.Rand) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)

	// Reservoir sampling keeps memory bounded by n.
	reservoir := make([][]byte, 0, n)
	seen := 0
	for s.Scan() {
		line := bytes.TrimSpace(s.Bytes())
		if len(line) == 0 {
			continue
		}
		seen++
		if len(reservoir) < n {
			reservoir = append(reservoir, bytes.Clone(line))
			continue
		}
		if j := rng.Intn(seen); j < n {
			reservoir[j] = bytes.Clone(line)
		}
	}
	if err := s.Err(); err != nil {
		return 0, err
	}

	rng.Shuffle(len(reservoir), func(i, j int) {
		reservoir[i], reservoir[j] = reservoir[j], reservoir[i]
	})

	bw := bufio.NewWriter(w)
	for _, line := range reservoir {
		if _, err := bw.Write(line); err != nil {
			return 0, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return 0, err
		}
	}
	return len(reservoir), bw.Flush()
}
