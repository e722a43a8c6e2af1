package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zerx-lab/zerxsite"
	"github.com/zerx-lab/zerxsite/internal/config"
	"github.com/zerx-lab/zerxsite/internal/logging"
)

// stdinPath reads the document from standard input.
const stdinPath = "-"

// runRenderCmd renders one markdown file with the restricted renderer.
func runRenderCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: render takes exactly one file", ErrUsage)
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeRenderFlags(flags, cfg)
	if err := finalizeConfig(cfg); err != nil {
		return err
	}

	provider, err := newLogging(cfg, flags.common)
	if err != nil {
		return err
	}
	logger := logging.ModuleLogger(provider, logging.RootModule)

	markdown, err := readMarkdown(positional[0], env.Stdin)
	if err != nil {
		return err
	}

	start := time.Now()
	renderer := newRenderer(cfg)
	var result zerxsite.RenderResult
	if flags.highlight {
		result = renderer.RenderWithHighlighting(ctx, markdown)
	} else {
		result = renderer.Render(markdown)
	}
	if result.TOC == nil {
		result.TOC = []zerxsite.TOCItem{}
	}
	logger.Debug("render.done",
		"file", positional[0],
		"headings", len(result.TOC),
		"fallbacks", result.Fallbacks,
		"duration", time.Since(start).Round(time.Microsecond),
	)

	out := []byte(result.HTML)
	if flags.json {
		out, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		out = append(out, '\n')
	}

	if flags.output == "" {
		_, err := env.Stdout.Write(out)
		return err
	}
	if err := writeOutput(flags.output, out); err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// mergeRenderFlags applies render flags over cfg (CLI wins).
func mergeRenderFlags(flags *renderFlags, cfg *config.Config) {
	if flags.style != "" {
		cfg.Render.HighlightStyle = flags.style
	}
	if flags.timeout != "" {
		cfg.Render.HighlightTimeout = flags.timeout
	}
}

// readMarkdown reads path, or stdin when path is "-".
func readMarkdown(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- user-provided path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return string(data), nil
}
