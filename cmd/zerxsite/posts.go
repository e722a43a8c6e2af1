package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/zerx-lab/zerxsite/internal/blog"
)

// dateLayout formats post dates in listings.
const dateLayout = "2006-01-02"

// runPostsCmd prints one page of the merged post index.
func runPostsCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePostsFlags(args, env.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: posts takes no arguments", ErrUsage)
	}
	if flags.page < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, flags.page)
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	if err := finalizeConfig(cfg); err != nil {
		return err
	}

	provider, err := newLogging(cfg, flags.common)
	if err != nil {
		return err
	}

	wc := newWolaiClient(cfg, provider)
	if flags.noWolai {
		wc = nil
	}
	idx, err := newBlogService(cfg, provider, wc).Index(ctx)
	if err != nil {
		return err
	}

	page := idx.Page(flags.page, cfg.Content.PageSize)
	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	printPage(env.Stdout, page, cfg.Content.PageSize)
	return nil
}

// printPage writes a human-readable listing of page.
func printPage(w io.Writer, page blog.Page, size int) {
	if len(page.Entries) == 0 {
		fmt.Fprintf(w, "No posts on page %d (%d total)\n", page.Number, page.Total)
		return
	}

	for _, e := range page.Entries {
		date := strings.Repeat(" ", len(dateLayout))
		if e.Date != nil {
			date = e.Date.Format(dateLayout)
		}
		fmt.Fprintf(w, "%s  %-5s  %s\n", date, e.Source, e.Title)
		fmt.Fprintf(w, "%s         %s\n", strings.Repeat(" ", len(dateLayout)), e.URL)
	}

	pages := (page.Total + size - 1) / size
	fmt.Fprintf(w, "\nPage %d of %d (%d posts)", page.Number, pages, page.Total)
	if page.HasMore {
		fmt.Fprintf(w, ", next: --page %d", page.Number+1)
	}
	fmt.Fprintln(w)
}
