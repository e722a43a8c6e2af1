package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// headingTagPattern matches h1-h6 tags with an id attribute.
// Captures: 1=level, 2=id, 3=inner HTML (may contain inline tags)
var headingTagPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

// htmlTagPattern matches HTML tags for stripping from heading text.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes tags, decodes entities and trims whitespace.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// ExtractTOC collects depth 2-3 headings carrying an id from rendered HTML.
// Headings without IDs are skipped.
func ExtractTOC(htmlContent string) []TOCItem {
	matches := headingTagPattern.FindAllStringSubmatch(htmlContent, -1)
	if len(matches) == 0 {
		return nil
	}

	var toc []TOCItem
	for _, m := range matches {
		depth, _ := strconv.Atoi(m[1])
		if !inTOC(depth) {
			continue
		}
		toc = append(toc, TOCItem{
			Title: stripHTMLTags(m[3]),
			URL:   "#" + m[2],
			Depth: depth,
		})
	}
	return toc
}
