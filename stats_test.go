package wikicorpus

import (
	"bytes"
	"testing"
	"time"
)

func TestStatsCount(t *testing.T) {
	st := Stats{}
	for _, v := range []Verdict{Accepted, Accepted, RejectedShort, RejectedRatio, RejectedMalformed} {
		st.count(v)
	}
	if st.Read != 5 || st.Accepted != 2 || st.Rejected() != 3 {
		t.Errorf("Unexpected stats %+v", st)
	}
}

func TestStatsYAML(t *testing.T) {
	st := Stats{Files: 2, Read: 10, Accepted: 4, Malformed: 1, Short: 3, Ratio: 2,
		Elapsed: 1500 * time.Millisecond}
	buf := &bytes.Buffer{}
	if err := st.WriteYAML(buf); err != nil {
		t.Fatalf("Error writing yaml: %v", err)
	}
	exp := `files: 2
read: 10
accepted: 4
malformed: 1
short: 3
ratio: 2
skipped: 0
elapsed: 1.5s
`
	if buf.String() != exp {
		t.Errorf("Expected\n%s\ngot\n%s", exp, buf.String())
	}
}
