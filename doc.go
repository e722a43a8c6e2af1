// Package zerxsite renders the content of the zerx-lab personal site.
//
// # Quick Start
//
// Render a note written in the restricted Markdown dialect:
//
//	r := zerxsite.NewRenderer()
//	result := r.Render("# Hello\n\n## Setup\n\n- one\n- two")
//	fmt.Println(result.HTML)
//	for _, item := range result.TOC {
//	    fmt.Println(item.Depth, item.Title, item.URL)
//	}
//
// Render never fails: constructs it does not recognize come out as plain
// paragraphs.
//
// # Syntax Highlighting
//
// RenderWithHighlighting sends every fenced block with a language tag to a
// Highlighter. Calls run concurrently and each one is bounded by a timeout.
// A block whose highlighting fails falls back to escaped <pre><code>:
//
//	r := zerxsite.NewRenderer(
//	    zerxsite.WithHighlightStyle("github-dark"),
//	    zerxsite.WithHighlightTimeout(2*time.Second),
//	)
//	result := r.RenderWithHighlighting(ctx, markdown)
//	if result.Fallbacks > 0 {
//	    log.Printf("%d code blocks rendered without highlighting", result.Fallbacks)
//	}
//
// # Table of Contents
//
// Headings of depth 1 to 3 receive an id derived by Slugify. Only depths 2
// and 3 are collected in the TOC: the depth-1 heading is the page title.
// Identical headings produce identical IDs.
//
// # Local Posts
//
// PostConverter renders full CommonMark/GFM Markdown (tables, footnotes,
// task lists) for posts stored in the repository, using the same heading IDs
// and TOC policy:
//
//	pc := zerxsite.NewPostConverter()
//	post, err := pc.Convert(ctx, markdown, "/blog/hello/")
package zerxsite
