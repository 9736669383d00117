package wikicorpus

import (
	"html"
	"regexp"
	"strings"
)

var commentRE, nowikiRE, extLinkRE, quoteRE *regexp.Regexp
var headingRE, magicRE, listRE, tagRE *regexp.Regexp

// blockRE matches elements whose contents are never prose.
var blockRE []*regexp.Regexp

// Link namespaces whose links are dropped rather than shown.
var droppedNamespaces map[string]bool

func init() {
	commentRE = regexp.MustCompile(`(?s)<!--.*?-->`)
	nowikiRE = regexp.MustCompile(`(?s)<nowiki>(.*?)</nowiki>`)
	extLinkRE = regexp.MustCompile(`\[(?:https?:)?//[^\s\]]+(?:\s+([^\]]*))?\]`)
	quoteRE = regexp.MustCompile(`'{2,}`)
	headingRE = regexp.MustCompile(`(?m)^=+[ \t]*(.*?)[ \t]*=+[ \t]*$`)
	magicRE = regexp.MustCompile(`__[A-Z]+__`)
	listRE = regexp.MustCompile(`(?m)^[*#:;]+[ \t]*`)
	tagRE = regexp.MustCompile(`</?([a-zA-Z][a-zA-Z0-9]*)\b[^<>]*?(/?)>`)

	for _, tag := range []string{"math", "gallery", "score", "timeline", "syntaxhighlight"} {
		blockRE = append(blockRE,
			regexp.MustCompile(`(?is)<`+tag+`\b[^>]*>.*?</`+tag+`>`))
	}

	droppedNamespaces = map[string]bool{}
	for _, ns := range []string{
		"file", "image", "category", "media",
		"文件", "檔案", "档案", "图像", "圖像", "分类", "分類",
	} {
		droppedNamespaces[ns] = true
	}
}

// StripMarkup reduces wikitext to roughly the plain text a reader
// sees. <ref> elements are left in place.
func StripMarkup(text string) string {
	text = commentRE.ReplaceAllString(text, "")
	text = nowikiRE.ReplaceAllString(text, "$1")
	for _, re := range blockRE {
		text = re.ReplaceAllString(text, "")
	}
	text = removeNested(text, "{{", "}}")
	text = removeNested(text, "{|", "|}")
	text = replaceLinks(text)
	text = extLinkRE.ReplaceAllString(text, "$1")
	text = quoteRE.ReplaceAllString(text, "")
	text = headingRE.ReplaceAllString(text, "$1")
	text = magicRE.ReplaceAllString(text, "")
	text = listRE.ReplaceAllString(text, "")
	text = tagRE.ReplaceAllStringFunc(text, stripTag)
	return strings.TrimSpace(html.UnescapeString(text))
}

// stripTag drops an HTML tag, except the open and close tags of
// non-empty references.
func stripTag(tag string) string {
	m := tagRE.FindStringSubmatch(tag)
	if strings.EqualFold(m[1], "ref") && m[2] == "" {
		return tag
	}
	return ""
}

// removeNested drops balanced open...close spans, including nested
// ones. An unclosed span is kept as text.
func removeNested(text, open, close string) string {
	if !strings.Contains(text, open) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	depth, start := 0, 0
	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], open):
			if depth == 0 {
				start = i
			}
			depth++
			i += len(open)
		case depth > 0 && strings.HasPrefix(text[i:], close):
			depth--
			i += len(close)
		default:
			if depth == 0 {
				b.WriteByte(text[i])
			}
			i++
		}
	}
	if depth > 0 {
		b.WriteString(text[start:])
	}
	return b.String()
}

// replaceLinks rewrites [[target|label]] as label and [[target]] as
// target, and drops file, image and category links along with any
// links nested in their captions.
func replaceLinks(text string) string {
	if !strings.Contains(text, "[[") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	depth, start := 0, 0
	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], "[["):
			if depth == 0 {
				start = i
			}
			depth++
			i += 2
		case depth > 0 && strings.HasPrefix(text[i:], "]]"):
			depth--
			i += 2
			if depth == 0 {
				b.WriteString(linkText(text[start+2 : i-2]))
			}
		default:
			if depth == 0 {
				b.WriteByte(text[i])
			}
			i++
		}
	}
	if depth > 0 {
		b.WriteString(text[start:])
	}
	return b.String()
}

func linkText(inner string) string {
	target := inner
	if i := strings.Index(inner, "|"); i >= 0 {
		target = inner[:i]
	}
	if i := strings.Index(target, ":"); i > 0 {
		if droppedNamespaces[strings.ToLower(strings.TrimSpace(target[:i]))] {
			return ""
		}
	}
	if i := strings.LastIndex(inner, "|"); i >= 0 {
		if label := inner[i+1:]; label != "" {
			return label
		}
	}
	return strings.TrimSpace(strings.TrimPrefix(target, ":"))
}
