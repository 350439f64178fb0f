// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config carries the compiler options and their environment
// loading. Options are read once at startup and shared read-only.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	"github.com/qolzam/hybridq/sqlfrag"
)

// Environment keys.
const (
	EnvJSONBColumn = "HYBRIDQ_JSONB_COLUMN"
	EnvBindvar     = "HYBRIDQ_BINDVAR"
	EnvDebug       = "HYBRIDQ_DEBUG"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options configures fragment compilation.
type Options struct {
	// JSONBColumn is the name of the hybrid data column, "data" by default.
	JSONBColumn string
	// Bindvar is the placeholder style Fragment.Bind produces.
	Bindvar int
	// Debug enables compilation logging.
	Debug bool
}

// Default returns the PostgreSQL defaults.
func Default() Options {
	return Options{
		JSONBColumn: "data",
		Bindvar:     sqlfrag.BindDollar,
		Debug:       false,
	}
}

// Load reads options from the environment, loading a local .env file first
// when one exists. Unset keys keep their defaults.
func Load() (Options, error) {
	// A missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	opts := Default()

	if col := os.Getenv(EnvJSONBColumn); col != "" {
		if !identifierPattern.MatchString(col) {
			return opts, fmt.Errorf("%s must be a valid identifier, got %q", EnvJSONBColumn, col)
		}
		opts.JSONBColumn = col
	}

	if style := os.Getenv(EnvBindvar); style != "" {
		switch strings.ToLower(style) {
		case "dollar":
			opts.Bindvar = sqlfrag.BindDollar
		case "question":
			opts.Bindvar = sqlfrag.BindQuestion
		case "named":
			opts.Bindvar = sqlfrag.BindNamed
		default:
			return opts, fmt.Errorf("%s must be dollar, question or named, got %q", EnvBindvar, style)
		}
	}

	if debug := os.Getenv(EnvDebug); debug != "" {
		opts.Debug = strings.EqualFold(debug, "true") || debug == "1"
	}

	return opts, nil
}

// Validate checks option consistency for manually constructed Options.
func (o Options) Validate() error {
	if o.JSONBColumn == "" {
		return fmt.Errorf("JSONBColumn must not be empty")
	}
	if !identifierPattern.MatchString(o.JSONBColumn) {
		return fmt.Errorf("JSONBColumn must be a valid identifier, got %q", o.JSONBColumn)
	}
	switch o.Bindvar {
	case sqlfrag.BindDollar, sqlfrag.BindQuestion, sqlfrag.BindNamed:
	default:
		return fmt.Errorf("unknown bindvar style %d", o.Bindvar)
	}
	return nil
}
