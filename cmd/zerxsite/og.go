package main

import (
	"context"
	"fmt"

	"github.com/zerx-lab/zerxsite/internal/logging"
	"github.com/zerx-lab/zerxsite/internal/ogimage"
)

// runOGCmd renders the site OpenGraph card to a PNG file.
func runOGCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseOGFlags(args, env.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: og takes no arguments", ErrUsage)
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	if flags.title != "" {
		cfg.OG.Title = flags.title
	}
	if flags.subtitle != "" {
		cfg.OG.Subtitle = flags.subtitle
	}
	if err := finalizeConfig(cfg); err != nil {
		return err
	}

	card := ogimage.Card{Title: cfg.OG.Title, Subtitle: cfg.OG.Subtitle}
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ogimage.ErrInvalidCard, err)
	}

	provider, err := newLogging(cfg, flags.common)
	if err != nil {
		return err
	}
	logger := logging.ModuleLogger(provider, logging.OGModule)

	pool := newOGPool(cfg, env, 1)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("og.close", "error", err)
		}
	}()

	if err := renderCard(ctx, pool, card, flags.output); err != nil {
		return err
	}
	logger.Debug("og.rendered", "path", flags.output, "title", card.Title)

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}
