package pipeline

import "strings"

// assembleBlocks groups processed lines into paragraphs and lists.
//
// The only state is whether a <ul> is open:
//   - blank line: closes an open list, otherwise skipped
//   - line starting with a tag other than <li>: closes an open list, emitted as is
//   - <li> line: opens a list if needed, emitted as is
//   - placeholder line: closes an open list, emitted as is
//   - anything else: closes an open list, wrapped in <p>
//
// The list tags share lines with the first and last items, so "- a\n- b"
// becomes "<ul><li>a</li>\n<li>b</li></ul>".
func assembleBlocks(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	inList := false

	closeList := func() {
		if inList {
			out[len(out)-1] += "</ul>"
			inList = false
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			closeList()
		case strings.HasPrefix(trimmed, "<li>"):
			if !inList {
				out = append(out, "<ul>"+trimmed)
				inList = true
				continue
			}
			out = append(out, trimmed)
		case strings.HasPrefix(trimmed, "<"):
			closeList()
			out = append(out, trimmed)
		case placeholderLinePattern.MatchString(trimmed):
			closeList()
			out = append(out, trimmed)
		default:
			closeList()
			out = append(out, "<p>"+trimmed+"</p>")
		}
	}
	closeList()

	return strings.Join(out, "\n")
}
