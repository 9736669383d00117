package wikicorpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func bzip(t *testing.T, s string) []byte {
	t.Helper()
	cmd := exec.Command("bzip2", "-c")
	cmd.Stdin = strings.NewReader(s)
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("Error compressing: %v", err)
	}
	return out
}

func testPage(id int, title string) string {
	return fmt.Sprintf(`<page><title>%s</title><ns>0</ns><id>%d</id>
<revision><id>%d</id><text>%s的正文</text></revision></page>
`, title, id, id+1000, title)
}

// writeMultiStream builds a dump of one header stream, one stream per
// group of pages and a footer stream, along with its index.
func writeMultiStream(t *testing.T, groups [][]string) (string, string) {
	t.Helper()
	if _, err := exec.LookPath("bzip2"); err != nil {
		t.Skip("bzip2 not available")
	}

	header := testDump[:strings.Index(testDump, "<page>")]
	data := &bytes.Buffer{}
	data.Write(bzip(t, header))

	index := &strings.Builder{}
	id := 1
	for _, group := range groups {
		offset := data.Len()
		var pages strings.Builder
		for _, title := range group {
			pages.WriteString(testPage(id, title))
			fmt.Fprintf(index, "%d:%d:%s\n", offset, id, title)
			id++
		}
		data.Write(bzip(t, pages.String()))
	}
	data.Write(bzip(t, "</mediawiki>\n"))

	dir := t.TempDir()
	datafn := filepath.Join(dir, "pages-articles-multistream.xml.bz2")
	indexfn := filepath.Join(dir, "pages-articles-multistream-index.txt.bz2")
	if err := os.WriteFile(datafn, data.Bytes(), 0o644); err != nil {
		t.Fatalf("Error writing data: %v", err)
	}
	if err := os.WriteFile(indexfn, bzip(t, index.String()), 0o644); err != nil {
		t.Fatalf("Error writing index: %v", err)
	}
	return indexfn, datafn
}

func TestIndexedParser(t *testing.T) {
	indexfn, datafn := writeMultiStream(t, [][]string{
		{"长城", "黄河", "长江"},
		{"泰山", "华山"},
	})

	p, err := NewIndexedParser(context.Background(), indexfn, datafn, 2)
	if err != nil {
		t.Fatalf("Error creating parser: %v", err)
	}
	if p.SiteInfo().DBName != "zhwiki" {
		t.Errorf("Unexpected site info %+v", p.SiteInfo())
	}

	var titles []string
	for {
		page, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Error reading page: %v", err)
		}
		if page.Text() != page.Title+"的正文" {
			t.Errorf("Unexpected text %q for %v", page.Text(), page.Title)
		}
		titles = append(titles, page.Title)
	}
	sort.Strings(titles)
	exp := []string{"华山", "泰山", "长城", "长江", "黄河"}
	sort.Strings(exp)
	if strings.Join(titles, ",") != strings.Join(exp, ",") {
		t.Errorf("Expected %v, got %v", exp, titles)
	}
}

func TestIndexedParserMissingIndex(t *testing.T) {
	_, datafn := writeMultiStream(t, [][]string{{"长城"}})

	p, err := NewIndexedParser(context.Background(),
		filepath.Join(t.TempDir(), "missing.bz2"), datafn, 1)
	if err != nil {
		t.Fatalf("Error creating parser: %v", err)
	}
	_, err = p.Next()
	if !os.IsNotExist(err) {
		t.Errorf("Expected a missing index error, got %v", err)
	}
}
