package wolai

import "strings"

// BlocksToMarkdown converts blocks to the Markdown subset the site renderer reads.
// Blocks are separated by a blank line; consecutive bullet items stay adjacent
// so they render as one list.
func BlocksToMarkdown(blocks []Block) string {
	var sb strings.Builder
	prevBullet := false
	for _, b := range blocks {
		md := blockToMarkdown(b)
		if md == "" {
			continue
		}
		bullet := isBullet(b.Type)
		if sb.Len() > 0 && !(bullet && prevBullet) {
			sb.WriteByte('\n')
		}
		sb.WriteString(md)
		prevBullet = bullet
	}
	return sb.String()
}

func isBullet(t string) bool {
	return t == "bulleted_list_item" || t == "bullet_list"
}

func blockText(b Block) string {
	var sb strings.Builder
	for _, c := range b.Content {
		if c.Title != "" {
			sb.WriteString(c.Title)
		} else {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

func blockToMarkdown(b Block) string {
	text := blockText(b)

	switch b.Type {
	case "heading", "heading_1":
		return "# " + text + "\n"
	case "heading_2":
		return "## " + text + "\n"
	case "heading_3":
		return "### " + text + "\n"
	case "bulleted_list_item", "bullet_list":
		return "- " + text + "\n"
	case "numbered_list_item", "numbered_list":
		return "1. " + text + "\n"
	case "code":
		return "```" + strings.ToLower(b.Language) + "\n" + text + "\n```\n"
	case "quote", "callout":
		return "> " + text + "\n"
	case "divider":
		return "---\n"
	case "image":
		if len(b.Content) == 0 || b.Content[0].URL == "" {
			return ""
		}
		alt := text
		if alt == "" {
			alt = "image"
		}
		return "![" + alt + "](" + b.Content[0].URL + ")\n"
	default:
		// paragraph, text, and unknown types
		if text == "" {
			return ""
		}
		return text + "\n"
	}
}
