package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// sentinelPrefix starts every code block placeholder token.
const sentinelPrefix = "__CODE_BLOCK_"

// neutralSentinelPrefix renders as "__CODE_BLOCK_" in a browser but is never
// matched as a placeholder.
const neutralSentinelPrefix = "&#95;_CODE_BLOCK_"

// sentinelMark stands for the first underscore of sentinel text found in the
// document while the inline passes run. Input never contains it (see
// sanitizeInput), so only rewritten text is turned into the entity afterwards
// and entities the author typed are escaped like any other text.
const sentinelMark = "\x00"

var (
	// codeFencePattern matches ```lang\n...``` with an optional language tag
	// such as go, c++ or objective-c. The body is matched lazily across lines.
	codeFencePattern = regexp.MustCompile("(?s)```([^\\s`]*)\\n(.*?)```")

	// placeholderPattern matches a placeholder token anywhere in the text.
	placeholderPattern = regexp.MustCompile(`__CODE_BLOCK_(\d+)__`)

	// placeholderLinePattern matches a line made only of a placeholder token.
	placeholderLinePattern = regexp.MustCompile(`^__CODE_BLOCK_\d+__$`)
)

// codeEscaper escapes the characters that could open markup inside code.
var codeEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// attrEscaper escapes a language tag for use in text and attribute values.
var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;", "'", "&#39;")

// codeBlock is a fenced block pulled out of the document before any other pass.
// It only lives for the duration of a single render.
type codeBlock struct {
	Index int
	Lang  string // may be empty
	Code  string // raw body, unescaped
}

// placeholderToken returns the sentinel standing in for block i.
func placeholderToken(i int) string {
	return sentinelPrefix + strconv.Itoa(i) + "__"
}

// neutralizeSentinels rewrites sentinel-looking text that did not come from
// extraction, so it can neither leak nor be restored as a code block.
func neutralizeSentinels(s string) string {
	if !strings.Contains(s, sentinelPrefix) {
		return s
	}
	return strings.ReplaceAll(s, sentinelPrefix, neutralSentinelPrefix)
}

// markSentinels rewrites sentinel-looking document text to sentinelMark form.
func markSentinels(s string) string {
	if !strings.Contains(s, sentinelPrefix) {
		return s
	}
	return strings.ReplaceAll(s, sentinelPrefix, sentinelMark+sentinelPrefix[1:])
}

// resolveSentinelMarks turns marked sentinel text into its HTML entity.
func resolveSentinelMarks(s string) string {
	if !strings.Contains(s, sentinelMark) {
		return s
	}
	return strings.ReplaceAll(s, sentinelMark, "&#95;")
}

// escapeCode escapes &, < and > in code content.
func escapeCode(code string) string {
	return codeEscaper.Replace(code)
}

// extractCodeBlocks replaces every fenced block with a placeholder token and
// returns the rewritten text with the blocks in document order. Sentinel text
// outside the fences is marked, see markSentinels.
func extractCodeBlocks(text string) (string, []codeBlock) {
	matches := codeFencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return markSentinels(text), nil
	}

	var b strings.Builder
	b.Grow(len(text))
	blocks := make([]codeBlock, 0, len(matches))

	last := 0
	for i, m := range matches {
		b.WriteString(markSentinels(text[last:m[0]]))
		blocks = append(blocks, codeBlock{
			Index: i,
			Lang:  text[m[2]:m[3]],
			Code:  text[m[4]:m[5]],
		})
		b.WriteString(placeholderToken(i))
		last = m[1]
	}
	b.WriteString(markSentinels(text[last:]))

	return b.String(), blocks
}

// plainCodeHTML renders a code body as escaped <pre><code>.
func plainCodeHTML(lang, code string) string {
	var b strings.Builder
	b.WriteString("<pre><code")
	if lang != "" {
		b.WriteString(` class="language-`)
		b.WriteString(attrEscaper.Replace(lang))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(neutralizeSentinels(escapeCode(code)))
	b.WriteString("</code></pre>")
	return b.String()
}

// codeFigureHTML wraps a rendered code body with its language header.
func codeFigureHTML(lang, body string) string {
	label := lang
	if label == "" {
		label = "code"
	}
	return `<figure class="code-block"><div class="code-header"><span>` + attrEscaper.Replace(label) +
		`</span></div>` + body + `</figure>`
}

// restoreCodeBlocks swaps each placeholder for its fragment in one pass.
// Restored content is never rescanned, so a fragment cannot trigger another
// substitution.
func restoreCodeBlocks(html string, fragments []string) string {
	if len(fragments) == 0 {
		return html
	}
	return placeholderPattern.ReplaceAllStringFunc(html, func(token string) string {
		m := placeholderPattern.FindStringSubmatch(token)
		i, err := strconv.Atoi(m[1])
		if err != nil || i < 0 || i >= len(fragments) {
			return neutralizeSentinels(token)
		}
		return fragments[i]
	})
}
