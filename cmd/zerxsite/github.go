package main

import (
	"context"
	"encoding/json"
	"fmt"
)

// runGitHubCmd prints the dashboard data of the configured owner.
func runGitHubCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseGitHubFlags(args, env.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: github takes no arguments", ErrUsage)
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
	client := newGitHubClient(cfg, provider)

	enc := json.NewEncoder(env.Stdout)
	enc.SetIndent("", "  ")
	if flags.stars {
		return enc.Encode(client.Stars(ctx))
	}
	return enc.Encode(client.Data(ctx))
}
