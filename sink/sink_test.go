package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dustin/go-elasticsearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustin/go-wikicorpus"
)

func testDoc(id, title string) wikicorpus.CleanedDocument {
	return wikicorpus.CleanedDocument{
		Text: "正文 " + title,
		Meta: wikicorpus.Meta{ID: json.Number(id), Title: title, URL: "u" + id},
	}
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := Open(Config{Kind: "redis"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSink)
}

func TestOpenJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "clean.jsonl")
	cfg := DefaultConfig()
	cfg.Path = path

	s, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &JSONL{}, s)

	require.NoError(t, s.Write(testDoc("1", "长城")))
	require.NoError(t, s.Write(testDoc("2", "黄河")))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"text":"正文 长城","meta":{"id":1,"title":"长城","url":"u1"}}`, lines[0])
}

func TestJSONLBuffer(t *testing.T) {
	buf := &bytes.Buffer{}
	j := NewJSONL(buf)
	require.NoError(t, j.Write(testDoc("7", "a<b")))
	assert.Empty(t, buf.String(), "lines are buffered until Close")
	require.NoError(t, j.Close())
	assert.Equal(t, `{"text":"正文 a<b","meta":{"id":7,"title":"a<b","url":"u7"}}`+"\n", buf.String())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "长城", key(testDoc("1", "长城")))
	assert.Equal(t, "9", key(testDoc("9", "")))
}

func TestEscapeTitle(t *testing.T) {
	assert.Equal(t, "AC%2fDC%2b1", escapeTitle("AC/DC+1"))
	assert.Equal(t, "平常", escapeTitle("平常"))
}

func TestElasticBatches(t *testing.T) {
	var updates []*elasticsearch.UpdateInstruction
	sends, quits := 0, 0
	e := &Elastic{
		index:  "wikicorpus",
		typ:    "article",
		update: func(ui *elasticsearch.UpdateInstruction) { updates = append(updates, ui) },
		send:   func() { sends++ },
		quit:   func() { quits++ },
		count:  func() (int, error) { return elasticBatch + 1, nil },
	}

	for i := 0; i <= elasticBatch; i++ {
		require.NoError(t, e.Write(testDoc("1", "长城")))
	}
	require.NoError(t, e.Close())

	assert.Len(t, updates, elasticBatch+1)
	assert.Equal(t, 1, sends)
	assert.Equal(t, 1, quits)
	assert.Equal(t, "长城", updates[0].Id)
	assert.Equal(t, "wikicorpus", updates[0].Index)
	assert.Equal(t, "article", updates[0].Type)
}

func TestElasticCloseReportsCountFailure(t *testing.T) {
	e := &Elastic{
		index:  "wikicorpus",
		update: func(*elasticsearch.UpdateInstruction) {},
		send:   func() {},
		quit:   func() {},
		count:  func() (int, error) { return 0, errors.New("connection refused") },
	}
	require.NoError(t, e.Write(testDoc("1", "长城")))
	err := e.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func elasticServer(t *testing.T, status, count int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/wikicorpus/_refresh":
			w.WriteHeader(status)
		case r.Method == http.MethodGet && r.URL.Path == "/wikicorpus/_count":
			fmt.Fprintf(w, `{"count":%d,"_shards":{"total":1}}`, count)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCountIndexed(t *testing.T) {
	srv := elasticServer(t, http.StatusOK, 42)
	n, err := countIndexed(srv.Client(), srv.URL+"/", "wikicorpus")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestCountIndexedErrors(t *testing.T) {
	srv := elasticServer(t, http.StatusServiceUnavailable, 0)
	_, err := countIndexed(srv.Client(), srv.URL, "wikicorpus")
	assert.Error(t, err)

	_, err = countIndexed(srv.Client(), srv.URL, "missing")
	assert.Error(t, err)
}
