package pipeline

import (
	"regexp"
	"strings"
)

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// sanitizeInput normalizes line endings and replaces NUL with U+FFFD, which
// keeps sentinelMark out of the document.
func sanitizeInput(content string) string {
	return strings.ReplaceAll(normalizeLineEndings(content), "\x00", "\uFFFD")
}
