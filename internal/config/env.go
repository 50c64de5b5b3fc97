// Package config loads command configuration from the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables. Malformed values
// are reported as a UsageError.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return &UsageError{Err: fmt.Errorf("parse env: %w", err)}
	}
	return nil
}

// ParseConfigFromArgs loads defaults from env into cfg and then parses flags,
// so flags registered on fs against cfg's fields override the environment.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string, register func(*flag.FlagSet, *T)) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if err := ParseEnv(cfg); err != nil {
		return err
	}
	if register != nil {
		register(fs, cfg)
	}
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &UsageError{Err: fmt.Errorf("parse flags: %w", err)}
	}
	return nil
}
