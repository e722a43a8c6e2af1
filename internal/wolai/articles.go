package wolai

import (
	"context"
	"strings"
)

// Column names accepted for each article field, in lookup order.
var (
	titleKeys       = []string{"标题", "title", "Title"}
	descriptionKeys = []string{"描述", "description", "Description"}
	tagsKeys        = []string{"标签", "tags", "Tags"}
	statusKeys      = []string{"状态", "status", "Status"}
)

// Published status values. An empty status also counts as published.
const (
	StatusPublishedZH = "已发布"
	StatusPublished   = "Published"
)

// Articles reads a database and returns its published rows in database order.
func (c *Client) Articles(ctx context.Context, databaseID string) ([]Article, error) {
	if strings.TrimSpace(databaseID) == "" {
		return nil, ErrMissingDatabase
	}

	db, err := c.Database(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	articles := make([]Article, 0, len(db.Rows))
	for _, row := range db.Rows {
		a := rowToArticle(row)
		if a.Title == "" || !isPublished(a.Status) {
			continue
		}
		articles = append(articles, a)
	}
	c.logger.Debug("wolai.articles.loaded", "database", databaseID, "rows", len(db.Rows), "published", len(articles))
	return articles, nil
}

// ArticleContent returns the Markdown body of an article page.
func (c *Client) ArticleContent(ctx context.Context, blockID string) (string, error) {
	list, err := c.BlockChildren(ctx, blockID)
	if err != nil {
		return "", err
	}
	if list.HasMore {
		c.logger.Warn("wolai.content.truncated", "block", blockID)
	}
	return BlocksToMarkdown(list.Data), nil
}

func rowToArticle(row Row) Article {
	a := Article{
		ID:          row.PageID,
		Title:       lookup(row.Data, titleKeys),
		Description: lookup(row.Data, descriptionKeys),
		Status:      lookup(row.Data, statusKeys),
	}
	if raw := lookup(row.Data, tagsKeys); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			a.Tags = append(a.Tags, strings.TrimSpace(tag))
		}
	}
	return a
}

// lookup returns the value of the first present column.
func lookup(data map[string]Cell, keys []string) string {
	for _, k := range keys {
		if cell, ok := data[k]; ok && cell.Value != "" {
			return cell.Value
		}
	}
	return ""
}

func isPublished(status string) bool {
	return status == "" || status == StatusPublishedZH || status == StatusPublished
}
