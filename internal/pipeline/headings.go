package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// TOC depth bounds. Level-1 headings are rendered but never collected:
// the page title already plays that role.
const (
	TOCMinDepth = 2
	TOCMaxDepth = 3
)

var (
	// headingLinePattern matches "# ", "## " and "### " lines.
	headingLinePattern = regexp.MustCompile(`(?m)^(#{1,3}) (.+)$`)

	// slugSeparatorPattern matches runs outside ASCII word characters and
	// the CJK Unified Ideographs block.
	slugSeparatorPattern = regexp.MustCompile(`[^\w\x{4E00}-\x{9FFF}]+`)
)

// TOCItem is one table of contents entry.
type TOCItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Depth int    `json:"depth"`
}

// Slugify derives an anchor ID from heading text: lower-cased, runs of other
// characters collapsed to one hyphen, leading and trailing hyphens removed.
// Identical headings produce identical slugs.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = slugSeparatorPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// inTOC reports whether a heading depth is collected in the TOC.
func inTOC(depth int) bool {
	return depth >= TOCMinDepth && depth <= TOCMaxDepth
}

// processHeadings turns heading lines into <hN id="slug"> tags and collects
// TOC entries in document order.
func processHeadings(text string) (string, []TOCItem) {
	var toc []TOCItem

	out := headingLinePattern.ReplaceAllStringFunc(text, func(line string) string {
		m := headingLinePattern.FindStringSubmatch(line)
		depth := len(m[1])
		title := m[2]
		id := Slugify(title)

		if inTOC(depth) {
			toc = append(toc, TOCItem{Title: title, URL: "#" + id, Depth: depth})
		}

		level := strconv.Itoa(depth)
		return "<h" + level + ` id="` + id + `">` + title + "</h" + level + ">"
	})

	return out, toc
}
