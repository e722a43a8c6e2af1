package main

// Notes:
// - Each parser is tested for defaults, explicit values and unknown flags.
// - -h returns pflag's ErrHelp; runMain maps it to a successful exit.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"io"
	"reflect"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseRenderFlags - render command flags
// ---------------------------------------------------------------------------

func TestParseRenderFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		want     renderFlags
		wantArgs []string
	}{
		{
			name:     "defaults",
			args:     []string{"post.md"},
			want:     renderFlags{},
			wantArgs: []string{"post.md"},
		},
		{
			name: "all flags",
			args: []string{"-o", "out.html", "--json", "--highlight", "--style", "monokai", "--timeout", "2s", "-c", "site", "-q", "-v", "post.md"},
			want: renderFlags{
				common:    commonFlags{config: "site", quiet: true, verbose: true},
				output:    "out.html",
				json:      true,
				highlight: true,
				style:     "monokai",
				timeout:   "2s",
			},
			wantArgs: []string{"post.md"},
		},
		{
			name:     "stdin dash is positional",
			args:     []string{"-"},
			want:     renderFlags{},
			wantArgs: []string{"-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, args, err := parseRenderFlags(tt.args, io.Discard)
			if err != nil {
				t.Fatalf("parseRenderFlags() error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("flags = %+v, want %+v", *got, tt.want)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseBuildFlags - build command flags
// ---------------------------------------------------------------------------

func TestParseBuildFlags(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		got, args, err := parseBuildFlags(nil, io.Discard)
		if err != nil {
			t.Fatalf("parseBuildFlags() error = %v", err)
		}
		if *got != (buildFlags{}) {
			t.Errorf("flags = %+v, want zero value", *got)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
	})

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()

		got, _, err := parseBuildFlags([]string{
			"-o", "dist", "--posts", "notes", "-w", "4", "--og", "--no-github", "--no-wolai", "-c", "/tmp/site.yaml",
		}, io.Discard)
		if err != nil {
			t.Fatalf("parseBuildFlags() error = %v", err)
		}
		want := buildFlags{
			common:   commonFlags{config: "/tmp/site.yaml"},
			output:   "dist",
			posts:    "notes",
			workers:  4,
			og:       true,
			noGitHub: true,
			noWolai:  true,
		}
		if *got != want {
			t.Errorf("flags = %+v, want %+v", *got, want)
		}
	})

	t.Run("non numeric workers", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseBuildFlags([]string{"--workers", "many"}, io.Discard); err == nil {
			t.Error("expected error for non numeric --workers")
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseOtherFlags - posts, github, og and config commands
// ---------------------------------------------------------------------------

func TestParsePostsFlags(t *testing.T) {
	t.Parallel()

	got, _, err := parsePostsFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parsePostsFlags() error = %v", err)
	}
	if got.page != 1 || got.json || got.noWolai {
		t.Errorf("defaults = %+v", *got)
	}

	got, _, err = parsePostsFlags([]string{"-p", "3", "--json", "--no-wolai"}, io.Discard)
	if err != nil {
		t.Fatalf("parsePostsFlags() error = %v", err)
	}
	if got.page != 3 || !got.json || !got.noWolai {
		t.Errorf("flags = %+v", *got)
	}
}

func TestParseGitHubFlags(t *testing.T) {
	t.Parallel()

	got, _, err := parseGitHubFlags([]string{"--stars"}, io.Discard)
	if err != nil {
		t.Fatalf("parseGitHubFlags() error = %v", err)
	}
	if !got.stars {
		t.Error("stars = false, want true")
	}
}

func TestParseOGFlags(t *testing.T) {
	t.Parallel()

	got, _, err := parseOGFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseOGFlags() error = %v", err)
	}
	if got.output != "og.png" {
		t.Errorf("output = %q, want og.png", got.output)
	}

	got, _, err = parseOGFlags([]string{"-o", "card.png", "--title", "T", "--subtitle", "S"}, io.Discard)
	if err != nil {
		t.Fatalf("parseOGFlags() error = %v", err)
	}
	if got.output != "card.png" || got.title != "T" || got.subtitle != "S" {
		t.Errorf("flags = %+v", *got)
	}
}

func TestParseConfigFlags(t *testing.T) {
	t.Parallel()

	got, _, err := parseConfigFlags([]string{"--show-secrets"}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfigFlags() error = %v", err)
	}
	if !got.showSecrets {
		t.Error("showSecrets = false, want true")
	}
}

// ---------------------------------------------------------------------------
// TestParseFlags_Errors - help and unknown flags
// ---------------------------------------------------------------------------

func TestParseFlags_Errors(t *testing.T) {
	t.Parallel()

	parsers := map[string]func([]string, io.Writer) error{
		"render": func(a []string, w io.Writer) error { _, _, err := parseRenderFlags(a, w); return err },
		"build":  func(a []string, w io.Writer) error { _, _, err := parseBuildFlags(a, w); return err },
		"posts":  func(a []string, w io.Writer) error { _, _, err := parsePostsFlags(a, w); return err },
		"github": func(a []string, w io.Writer) error { _, _, err := parseGitHubFlags(a, w); return err },
		"og":     func(a []string, w io.Writer) error { _, _, err := parseOGFlags(a, w); return err },
		"config": func(a []string, w io.Writer) error { _, _, err := parseConfigFlags(a, w); return err },
	}

	for name, parse := range parsers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if err := parse([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
				t.Errorf("-h error = %v, want ErrHelp", err)
			}
			err := parse([]string{"--bogus"}, io.Discard)
			if err == nil || errors.Is(err, flag.ErrHelp) {
				t.Errorf("--bogus error = %v, want parse error", err)
			}
			if !errors.Is(flagError(err), ErrUsage) {
				t.Errorf("flagError(%v) should wrap ErrUsage", err)
			}
		})
	}
}
