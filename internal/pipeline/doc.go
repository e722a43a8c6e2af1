// Package pipeline implements the Markdown-to-HTML conversion stages used by the site.
//
// Two converters live here:
//   - Renderer: a restricted Markdown dialect (notes exported from the hosted notes
//     service) rendered by ordered text passes, producing HTML and a heading TOC
//   - GoldmarkConverter: full CommonMark/GFM for local blog posts via Goldmark
//
// The Renderer passes run in a fixed order because later passes must not corrupt
// content captured by earlier ones:
//
//  1. Fenced code blocks are extracted and replaced with sentinel tokens
//  2. Headings receive slug IDs and feed the table of contents
//  3. Inline markup is substituted (code, bold, italic, images, links, quotes, lists, rules)
//  4. Lines are assembled into paragraphs and lists
//  5. Sentinel tokens are replaced with the final code block HTML
//
// Code highlighting is delegated to a Highlighter. A failing highlighter only
// downgrades its own block to escaped plain text.
package pipeline
