package pipeline

import "regexp"

// inlinePass is one global substitution over the text.
type inlinePass struct {
	name    string
	pattern *regexp.Regexp
	replace func(m []string) string
}

// inlinePasses run in this exact order. Spans never cross a line break so a
// stray marker cannot swallow the following paragraph. Images run before links,
// otherwise ![alt](src) would be consumed as "!" followed by a link.
var inlinePasses = []inlinePass{
	{
		name:    "code",
		pattern: regexp.MustCompile("`([^`\n]+)`"),
		replace: func(m []string) string { return "<code>" + escapeCode(m[1]) + "</code>" },
	},
	{
		name:    "bold",
		pattern: regexp.MustCompile(`\*\*([^*\n]+)\*\*`),
		replace: func(m []string) string { return "<strong>" + m[1] + "</strong>" },
	},
	{
		name:    "italic",
		pattern: regexp.MustCompile(`\*([^*\n]+)\*`),
		replace: func(m []string) string { return "<em>" + m[1] + "</em>" },
	},
	{
		name:    "image",
		pattern: regexp.MustCompile(`!\[([^\]\n]*)\]\(([^)\n]+)\)`),
		replace: func(m []string) string {
			return `<img src="` + m[2] + `" alt="` + m[1] + `" loading="lazy" />`
		},
	},
	{
		name:    "link",
		pattern: regexp.MustCompile(`\[([^\]\n]+)\]\(([^)\n]+)\)`),
		replace: func(m []string) string {
			return `<a href="` + m[2] + `" target="_blank" rel="noopener">` + m[1] + `</a>`
		},
	},
	{
		name:    "autolink",
		pattern: regexp.MustCompile(`<(https?://[^>\s]+)>`),
		replace: func(m []string) string {
			return `<a href="` + m[1] + `" target="_blank" rel="noopener">` + m[1] + `</a>`
		},
	},
	{
		name:    "blockquote",
		pattern: regexp.MustCompile(`(?m)^> (.+)$`),
		replace: func(m []string) string { return "<blockquote>" + m[1] + "</blockquote>" },
	},
	{
		name:    "list item",
		pattern: regexp.MustCompile(`(?m)^- (.+)$`),
		replace: func(m []string) string { return "<li>" + m[1] + "</li>" },
	},
	{
		name:    "rule",
		pattern: regexp.MustCompile(`(?m)^---$`),
		replace: func([]string) string { return "<hr />" },
	},
}

// applyInlinePasses runs every inline pass over text in order.
func applyInlinePasses(text string) string {
	for _, p := range inlinePasses {
		text = p.apply(text)
	}
	return text
}

func (p inlinePass) apply(text string) string {
	return p.pattern.ReplaceAllStringFunc(text, func(match string) string {
		return p.replace(p.pattern.FindStringSubmatch(match))
	})
}
