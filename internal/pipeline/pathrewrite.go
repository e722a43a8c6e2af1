package pipeline

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteAssetPaths rewrites relative image and link paths in a post fragment
// so they resolve under baseURL, and returns the cleaned relative paths it
// rewrote so the caller can publish those files next to the post.
// If baseURL is empty, returns the HTML unchanged.
//
// Rewrites:
//   - img[src]: relative paths to images
//   - a[href]: relative file paths (not anchors, not URLs)
//
// Paths escaping the post directory ("../") are left untouched.
func RewriteAssetPaths(htmlContent, baseURL string) (string, []string, error) {
	if baseURL == "" {
		return htmlContent, nil, nil
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", nil, err
	}

	rw := &assetRewriter{baseURL: baseURL, seen: make(map[string]bool)}
	rw.rewriteNode(doc)

	out, err := renderHTML(doc, isFragment)
	if err != nil {
		return "", nil, err
	}
	return out, rw.assets, nil
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.TrimSpace(content)

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(strings.ToLower(trimmed), "<!doctype") ||
		strings.HasPrefix(strings.ToLower(trimmed), "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	// Wrap nodes in a container for uniform traversal
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		// Render each child directly
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	// Full document: render normally
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// assetRewriter carries the state of one rewrite.
type assetRewriter struct {
	baseURL string
	assets  []string
	seen    map[string]bool
}

// rewriteNode traverses the DOM and rewrites relative paths.
func (rw *assetRewriter) rewriteNode(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "img":
			rw.rewriteAttr(n, "src")
		case "a":
			rw.rewriteAttr(n, "href")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rw.rewriteNode(c)
	}
}

// rewriteAttr rewrites a single attribute if it's a relative path.
func (rw *assetRewriter) rewriteAttr(n *html.Node, attrName string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName {
			continue
		}
		if !isRelativePath(attr.Val) {
			continue
		}

		rel, ok := cleanRelative(attr.Val)
		if !ok {
			continue
		}

		n.Attr[i].Val = rw.baseURL + (&url.URL{Path: rel}).EscapedPath()
		if !rw.seen[rel] {
			rw.seen[rel] = true
			rw.assets = append(rw.assets, rel)
		}
	}
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(p string) bool {
	if p == "" {
		return false
	}

	// Skip anchors, absolute paths and anything carrying a scheme
	// (http, https, mailto, data, ...) or a host.
	if strings.HasPrefix(p, "#") || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "?") {
		return false
	}
	u, err := url.Parse(p)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// cleanRelative strips query and fragment and cleans the path.
// Returns false when the path escapes its directory.
func cleanRelative(p string) (string, bool) {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	unescaped, err := url.PathUnescape(p)
	if err != nil {
		return "", false
	}
	cleaned := path.Clean(unescaped)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}
