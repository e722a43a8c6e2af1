package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zerx-lab/zerxsite"
	"github.com/zerx-lab/zerxsite/internal/blog"
	"github.com/zerx-lab/zerxsite/internal/config"
	"github.com/zerx-lab/zerxsite/internal/fileutil"
	"github.com/zerx-lab/zerxsite/internal/logging"
	"github.com/zerx-lab/zerxsite/internal/ogimage"
	"github.com/zerx-lab/zerxsite/internal/sitemap"
)

// Build output names.
const (
	postHTMLName = "index.html"
	postTOCName  = "toc.json"
	ogImageName  = "og.png"
	postsName    = "posts.json"
	githubName   = "github.json"
	sitemapName  = "sitemap.xml"
)

// PostResult holds the outcome of building a single post.
type PostResult struct {
	Entry      blog.Entry
	OutputPath string
	Err        error
	Duration   time.Duration
}

// postsIndex is the document written to posts.json.
type postsIndex struct {
	Generated time.Time    `json:"generated"`
	PageSize  int          `json:"pageSize"`
	Total     int          `json:"total"`
	Entries   []blog.Entry `json:"entries"`
}

// buildJob groups what every post build needs.
type buildJob struct {
	svc     *blog.Service
	idx     *blog.Index
	outDir  string
	workers int
	og      *ogimage.Pool // nil when OG images are disabled
	logger  logging.Logger
}

// runBuildCmd builds every post and the site data files.
func runBuildCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: build takes no arguments", ErrUsage)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeBuildFlags(flags, cfg)
	if err := finalizeConfig(cfg); err != nil {
		return err
	}

	provider, err := newLogging(cfg, flags.common)
	if err != nil {
		return err
	}
	logger := logging.ModuleLogger(provider, logging.BuildModule)

	wc := newWolaiClient(cfg, provider)
	if flags.noWolai {
		wc = nil
	}
	svc := newBlogService(cfg, provider, wc)

	start := time.Now()
	idx, err := svc.Index(ctx)
	if err != nil {
		return err
	}

	job := &buildJob{
		svc:     svc,
		idx:     idx,
		outDir:  cfg.Content.OutputDir,
		workers: zerxsite.ResolvePoolSize(cfg.Render.Workers),
		logger:  logger,
	}
	if cfg.OG.Enabled {
		job.og = newOGPool(cfg, env, job.workers)
		defer func() {
			if err := job.og.Close(); err != nil {
				logger.Warn("build.og.close", "error", err)
			}
		}()
	}
	logger.Debug("build.start", "posts", len(idx.Entries), "workers", job.workers, "og", job.og != nil)

	results := buildPosts(ctx, job, idx.Entries)
	failed := printBuildResults(results, flags.common, env)

	built := builtEntries(results)
	if err := writeJSON(filepath.Join(job.outDir, postsName), postsIndex{
		Generated: env.Now().UTC(),
		PageSize:  cfg.Content.PageSize,
		Total:     len(built),
		Entries:   built,
	}); err != nil {
		return err
	}

	if !flags.noGitHub {
		data := newGitHubClient(cfg, provider).Data(ctx)
		if err := writeJSON(filepath.Join(job.outDir, githubName), data); err != nil {
			return err
		}
	}

	if err := writeSitemap(filepath.Join(job.outDir, sitemapName), cfg.Site.URL, env.Now(), built); err != nil {
		return err
	}

	if job.og != nil {
		card := ogimage.Card{Title: cfg.OG.Title, Subtitle: cfg.OG.Subtitle}
		if err := renderCard(ctx, job.og, card, filepath.Join(job.outDir, ogImageName)); err != nil {
			return fmt.Errorf("site card: %w", err)
		}
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Built %d posts into %s", len(built), job.outDir)
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, " (%v)", time.Since(start).Round(time.Millisecond))
		}
		fmt.Fprintln(env.Stdout)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d posts failed", ErrBuildFailed, failed, len(results))
	}
	return nil
}

// mergeBuildFlags applies build flags over cfg (CLI wins).
func mergeBuildFlags(flags *buildFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Content.OutputDir = flags.output
	}
	if flags.posts != "" {
		cfg.Content.PostsDir = flags.posts
	}
	if flags.workers > 0 {
		cfg.Render.Workers = flags.workers
	}
	if flags.og {
		cfg.OG.Enabled = true
	}
}

// buildPosts renders entries concurrently with job.workers workers.
// Results keep the order of entries.
func buildPosts(ctx context.Context, job *buildJob, entries []blog.Entry) []PostResult {
	if len(entries) == 0 {
		return nil
	}

	concurrency := min(max(job.workers, 1), len(entries))
	results := make([]PostResult, len(entries))
	jobs := make(chan int, len(entries))
	var wg sync.WaitGroup

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					results[i] = PostResult{Entry: entries[i], Err: ctx.Err()}
					continue
				}
				results[i] = job.buildPost(ctx, entries[i])
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// buildPost renders one entry and writes its files.
func (j *buildJob) buildPost(ctx context.Context, e blog.Entry) PostResult {
	start := time.Now()
	result := PostResult{Entry: e}
	finish := func(err error) PostResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	rendered, err := j.svc.Render(ctx, j.idx, e)
	if err != nil {
		return finish(err)
	}

	dir := postDir(j.outDir, e)
	htmlPath := filepath.Join(dir, postHTMLName)
	if err := writeOutput(htmlPath, []byte(rendered.HTML)); err != nil {
		return finish(err)
	}

	toc := rendered.TOC
	if toc == nil {
		toc = []zerxsite.TOCItem{}
	}
	if err := writeJSON(filepath.Join(dir, postTOCName), toc); err != nil {
		return finish(err)
	}

	if rendered.Source != nil {
		if err := j.copyAssets(rendered.Source.Path, dir, rendered.Assets); err != nil {
			return finish(err)
		}
	}

	if j.og != nil {
		card := ogimage.Card{
			Title:    truncateRunes(e.Title, ogimage.MaxTitleLength),
			Subtitle: truncateRunes(e.Description, ogimage.MaxSubtitleLength),
		}
		if err := renderCard(ctx, j.og, card, filepath.Join(dir, ogImageName)); err != nil {
			return finish(err)
		}
	}

	result.OutputPath = htmlPath
	return finish(nil)
}

// copyAssets publishes the local files a post references next to its HTML.
// References that are not files, such as links to other pages, are skipped.
func (j *buildJob) copyAssets(postPath, dir string, assets []string) error {
	srcDir := filepath.Dir(postPath)
	for _, a := range assets {
		rel := filepath.FromSlash(a)
		src := filepath.Join(srcDir, rel)
		if !fileutil.FileExists(src) {
			j.logger.Debug("build.asset.skipped", "post", postPath, "asset", a)
			continue
		}
		if err := fileutil.CopyFile(src, filepath.Join(dir, rel)); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	return nil
}

// postDir maps an entry URL such as /blog/<slug> below outDir.
func postDir(outDir string, e blog.Entry) string {
	rel := strings.TrimPrefix(e.URL, "/")
	return filepath.Join(outDir, filepath.FromSlash(rel))
}

// renderCard renders card with a pooled renderer and writes the PNG to path.
func renderCard(ctx context.Context, pool *ogimage.Pool, card ogimage.Card, path string) error {
	r := pool.Acquire()
	if r == nil {
		return ogimage.ErrRendererClosed
	}
	defer pool.Release(r)

	png, err := r.Render(ctx, card)
	if err != nil {
		return err
	}
	return writeOutput(path, png)
}

// writeJSON writes v as indented JSON to path.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return writeOutput(path, append(data, '\n'))
}

// writeSitemap writes the fixed pages plus every built post.
func writeSitemap(path, baseURL string, now time.Time, entries []blog.Entry) error {
	b, err := sitemap.New(baseURL, now)
	if err != nil {
		return err
	}
	b.AddSitePages()
	for _, e := range entries {
		var modified time.Time
		if e.Date != nil {
			modified = *e.Date
		}
		b.AddPost(e.URL, modified)
	}

	data, err := b.Bytes()
	if err != nil {
		return fmt.Errorf("encoding sitemap: %w", err)
	}
	return writeOutput(path, data)
}

// builtEntries returns the entries that built successfully, in order.
func builtEntries(results []PostResult) []blog.Entry {
	entries := make([]blog.Entry, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			entries = append(entries, r.Entry)
		}
	}
	return entries
}

// ResultSummary holds the count of succeeded and failed posts.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed posts.
func countResults(results []PostResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printBuildResults outputs per-post results and returns the failure count.
func printBuildResults(results []PostResult, common commonFlags, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Entry.URL, r.Err, hintFor(r.Err))
			continue
		}

		if common.quiet {
			continue
		}

		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Entry.URL, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
