package main

import (
	"fmt"

	"github.com/zerx-lab/zerxsite/internal/config"
	"github.com/zerx-lab/zerxsite/internal/yamlutil"
)

// redacted replaces secret values in printed configs.
const redacted = "********"

// runConfigCmd prints the effective configuration as YAML.
func runConfigCmd(args []string, env *Environment) error {
	flags, positional, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return flagError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrUsage)
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	if err := finalizeConfig(cfg); err != nil {
		return err
	}
	if !flags.showSecrets {
		redactSecrets(cfg)
	}

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(data)
	return err
}

// redactSecrets masks tokens and secrets that are set.
func redactSecrets(cfg *config.Config) {
	for _, s := range []*string{&cfg.GitHub.Token, &cfg.Wolai.AppSecret} {
		if *s != "" {
			*s = redacted
		}
	}
}
