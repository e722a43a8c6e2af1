package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common    commonFlags
	output    string
	json      bool
	highlight bool
	style     string
	timeout   string
}

// buildFlags holds flags for the build command.
type buildFlags struct {
	common   commonFlags
	output   string
	posts    string
	workers  int
	og       bool
	noGitHub bool
	noWolai  bool
}

// postsFlags holds flags for the posts command.
type postsFlags struct {
	common  commonFlags
	page    int
	json    bool
	noWolai bool
}

// githubFlags holds flags for the github command.
type githubFlags struct {
	common commonFlags
	stars  bool
}

// ogFlags holds flags for the og command.
type ogFlags struct {
	common   commonFlags
	output   string
	title    string
	subtitle string
}

// configFlags holds flags for the config command.
type configFlags struct {
	common      commonFlags
	showSecrets bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// newFlagSet creates a FlagSet whose usage goes to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", stderr, printRenderUsage)

	fs.StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	fs.BoolVar(&f.json, "json", false, "print {html, toc} as JSON")
	fs.BoolVar(&f.highlight, "highlight", false, "highlight code blocks with chroma")
	fs.StringVar(&f.style, "style", "", "chroma style name")
	fs.StringVar(&f.timeout, "timeout", "", "per code block highlight timeout (e.g. 5s)")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newFlagSet("build", stderr, printBuildUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.posts, "posts", "", "local posts directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.og, "og", false, "render OpenGraph images")
	fs.BoolVar(&f.noGitHub, "no-github", false, "skip github.json")
	fs.BoolVar(&f.noWolai, "no-wolai", false, "skip hosted articles")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parsePostsFlags parses posts command flags and returns positional args.
func parsePostsFlags(args []string, stderr io.Writer) (*postsFlags, []string, error) {
	f := &postsFlags{}
	fs := newFlagSet("posts", stderr, printPostsUsage)

	fs.IntVarP(&f.page, "page", "p", 1, "page number (1-based)")
	fs.BoolVar(&f.json, "json", false, "print the page as JSON")
	fs.BoolVar(&f.noWolai, "no-wolai", false, "skip hosted articles")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseGitHubFlags parses github command flags and returns positional args.
func parseGitHubFlags(args []string, stderr io.Writer) (*githubFlags, []string, error) {
	f := &githubFlags{}
	fs := newFlagSet("github", stderr, printGitHubUsage)

	fs.BoolVar(&f.stars, "stars", false, "print per-repository stars only")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseOGFlags parses og command flags and returns positional args.
func parseOGFlags(args []string, stderr io.Writer) (*ogFlags, []string, error) {
	f := &ogFlags{}
	fs := newFlagSet("og", stderr, printOGUsage)

	fs.StringVarP(&f.output, "output", "o", "og.png", "PNG output path")
	fs.StringVar(&f.title, "title", "", "card title (default: og.title)")
	fs.StringVar(&f.subtitle, "subtitle", "", "card subtitle (default: og.subtitle)")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags and returns positional args.
func parseConfigFlags(args []string, stderr io.Writer) (*configFlags, []string, error) {
	f := &configFlags{}
	fs := newFlagSet("config", stderr, printConfigUsage)

	fs.BoolVar(&f.showSecrets, "show-secrets", false, "print tokens and secrets unredacted")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
