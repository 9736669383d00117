package wikicorpus

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// The toplevel site info describing basic dump properties.
type SiteInfo struct {
	SiteName   string `xml:"sitename"`
	DBName     string `xml:"dbname"`
	Base       string `xml:"base"`
	Generator  string `xml:"generator"`
	Case       string `xml:"case"`
	Namespaces []struct {
		Key   string `xml:"key,attr"`
		Case  string `xml:"case,attr"`
		Value string `xml:",chardata"`
	} `xml:"namespaces>namespace"`
}

// URLBase is the article path prefix derived from Base, e.g.
// https://zh.wikipedia.org/wiki for https://zh.wikipedia.org/wiki/Main_Page.
func (si SiteInfo) URLBase() string {
	if i := strings.LastIndex(si.Base, "/"); i >= 0 {
		return si.Base[:i]
	}
	return si.Base
}

// A user who contributed a revision.
type Contributor struct {
	ID       uint64 `xml:"id"`
	Username string `xml:"username"`
}

// A revision to a page.
type Revision struct {
	ID          uint64      `xml:"id"`
	Timestamp   string      `xml:"timestamp"`
	Contributor Contributor `xml:"contributor"`
	Comment     string      `xml:"comment"`
	Text        string      `xml:"text"`
}

// A Redirect marks a page that only points elsewhere.
type Redirect struct {
	Title string `xml:"title,attr"`
}

// A wiki page.
type Page struct {
	Title     string     `xml:"title"`
	NS        int        `xml:"ns"`
	ID        uint64     `xml:"id"`
	Redirect  *Redirect  `xml:"redirect"`
	Revisions []Revision `xml:"revision"`
}

// IsArticle is true for main namespace pages that are not redirects.
func (p *Page) IsArticle() bool {
	return p.NS == 0 && p.Redirect == nil && len(p.Revisions) > 0
}

// Text is the wikitext of the latest revision in the page.
func (p *Page) Text() string {
	if len(p.Revisions) == 0 {
		return ""
	}
	return p.Revisions[len(p.Revisions)-1].Text
}

// Document converts the page into a raw document with its markup
// stripped, the way an extraction step would emit it.
func (p *Page) Document(si SiteInfo) RawDocument {
	id := strconv.FormatUint(p.ID, 10)
	return RawDocument{
		ID:    id,
		Title: p.Title,
		URL:   si.URLBase() + "?curid=" + id,
		Text:  StripMarkup(p.Text()),
	}
}

// That which emits wiki pages.
type Parser interface {
	// Get the next page from the parser
	Next() (*Page, error)
	// Get the toplevel site info from the stream
	SiteInfo() SiteInfo
}

type singleStreamParser struct {
	siteInfo SiteInfo
	x        *xml.Decoder
}

func readSiteInfo(d *xml.Decoder) (SiteInfo, error) {
	si := SiteInfo{}
	// Skip any prolog up to the <mediawiki> element.
	for {
		t, err := d.Token()
		if err != nil {
			return si, err
		}
		if _, ok := t.(xml.StartElement); ok {
			break
		}
	}
	err := d.Decode(&si)
	return si, err
}

// Get a wikipedia dump parser reading from the given reader.
func NewParser(r io.Reader) (Parser, error) {
	d := xml.NewDecoder(r)
	si, err := readSiteInfo(d)
	if err != nil {
		return nil, err
	}

	return &singleStreamParser{
		siteInfo: si,
		x:        d,
	}, nil
}

func (p *singleStreamParser) Next() (rv *Page, err error) {
	rv = new(Page)
	err = p.x.Decode(rv)
	return
}

func (p *singleStreamParser) SiteInfo() SiteInfo {
	return p.siteInfo
}
