package wikicorpus

import (
	"io"
	"strings"
	"testing"
)

const testDump = `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/" version="0.10" xml:lang="zh">
  <siteinfo>
    <sitename>Wikipedia</sitename>
    <dbname>zhwiki</dbname>
    <base>https://zh.wikipedia.org/wiki/Wikipedia:%E9%A6%96%E9%A1%B5</base>
    <generator>MediaWiki 1.41.0-wmf.1</generator>
    <case>first-letter</case>
    <namespaces>
      <namespace key="0" case="first-letter" />
      <namespace key="4" case="first-letter">Wikipedia</namespace>
    </namespaces>
  </siteinfo>
  <page>
    <title>数学</title>
    <ns>0</ns>
    <id>13</id>
    <revision>
      <id>100</id>
      <timestamp>2023-05-01T00:00:00Z</timestamp>
      <contributor>
        <username>Someone</username>
        <id>7</id>
      </contributor>
      <text xml:space="preserve">'''数学'''是研究[[数量]]的学科。{{Math-stub}}</text>
    </revision>
  </page>
  <page>
    <title>算学</title>
    <ns>0</ns>
    <id>14</id>
    <redirect title="数学" />
    <revision>
      <id>101</id>
      <text xml:space="preserve">#REDIRECT [[数学]]</text>
    </revision>
  </page>
  <page>
    <title>Wikipedia:关于</title>
    <ns>4</ns>
    <id>15</id>
    <revision>
      <id>102</id>
      <text xml:space="preserve">关于本站</text>
    </revision>
  </page>
</mediawiki>
`

func TestParser(t *testing.T) {
	p, err := NewParser(strings.NewReader(testDump))
	if err != nil {
		t.Fatalf("Error creating parser: %v", err)
	}

	si := p.SiteInfo()
	if si.DBName != "zhwiki" || len(si.Namespaces) != 2 {
		t.Errorf("Unexpected site info %+v", si)
	}
	if b := si.URLBase(); b != "https://zh.wikipedia.org/wiki" {
		t.Errorf("Expected url base https://zh.wikipedia.org/wiki, got %v", b)
	}

	var pages []*Page
	for {
		page, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Error reading page: %v", err)
		}
		pages = append(pages, page)
	}
	if len(pages) != 3 {
		t.Fatalf("Expected 3 pages, got %v", len(pages))
	}

	if !pages[0].IsArticle() || pages[1].IsArticle() || pages[2].IsArticle() {
		t.Errorf("Wrong article classification: %v %v %v",
			pages[0].IsArticle(), pages[1].IsArticle(), pages[2].IsArticle())
	}
	if pages[1].Redirect == nil || pages[1].Redirect.Title != "数学" {
		t.Errorf("Expected redirect to 数学, got %+v", pages[1].Redirect)
	}
	if c := pages[0].Revisions[0].Contributor; c.ID != 7 || c.Username != "Someone" {
		t.Errorf("Unexpected contributor %+v", c)
	}

	doc := pages[0].Document(si)
	exp := RawDocument{
		ID:    "13",
		Title: "数学",
		URL:   "https://zh.wikipedia.org/wiki?curid=13",
		Text:  "数学是研究数量的学科。",
	}
	if doc != exp {
		t.Errorf("Expected %#v, got %#v", exp, doc)
	}
}

func TestPageText(t *testing.T) {
	p := Page{Revisions: []Revision{{Text: "old"}, {Text: "new"}}}
	if p.Text() != "new" {
		t.Errorf("Expected the latest revision text, got %q", p.Text())
	}
	if (&Page{}).Text() != "" {
		t.Errorf("Expected no text for a page without revisions")
	}
}

func TestParserBadInput(t *testing.T) {
	if _, err := NewParser(strings.NewReader("")); err == nil {
		t.Errorf("Expected an error parsing an empty stream")
	}
}
