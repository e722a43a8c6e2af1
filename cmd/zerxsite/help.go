package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zerxsite <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render a markdown file to HTML with its table of contents")
	fmt.Fprintln(w, "  build      Build blog pages, indexes, sitemap and OpenGraph images")
	fmt.Fprintln(w, "  posts      List local and hosted posts page by page")
	fmt.Fprintln(w, "  github     Print the GitHub dashboard data as JSON")
	fmt.Fprintln(w, "  og         Render the OpenGraph card to a PNG file")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check the browser and remote source setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'zerxsite help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zerxsite render <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a markdown file with the built-in renderer (headings, lists,")
	fmt.Fprintln(w, "quotes, inline markup, links, images and fenced code).")
	fmt.Fprintln(w, "Use '-' to read from stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Write to file instead of stdout")
	fmt.Fprintln(w, "      --json                Print {\"html\", \"toc\"} as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Highlighting:")
	fmt.Fprintln(w, "      --highlight           Highlight code blocks with chroma")
	fmt.Fprintln(w, "      --style <name>        Chroma style (default: render.highlightStyle)")
	fmt.Fprintln(w, "      --timeout <d>         Per block timeout (default: render.highlightTimeout)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zerxsite build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every post and write the site data:")
	fmt.Fprintln(w, "  <out>/blog/<slug>/index.html   post HTML fragment")
	fmt.Fprintln(w, "  <out>/blog/<slug>/toc.json     table of contents")
	fmt.Fprintln(w, "  <out>/posts.json               merged post index")
	fmt.Fprintln(w, "  <out>/github.json              dashboard data")
	fmt.Fprintln(w, "  <out>/sitemap.xml              sitemap")
	fmt.Fprintln(w, "  <out>/og.png                   OpenGraph cards (with --og or og.enabled)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: content.outputDir)")
	fmt.Fprintln(w, "      --posts <dir>         Local posts directory (default: content.postsDir)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	fmt.Fprintln(w, "      --og                  Render OpenGraph images")
	fmt.Fprintln(w, "      --no-github           Skip github.json")
	fmt.Fprintln(w, "      --no-wolai            Skip hosted articles")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printPostsUsage prints usage for the posts command.
func printPostsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zerxsite posts [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List local posts followed by hosted articles.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -p, --page <n>            Page number (default: 1)")
	fmt.Fprintln(w, "      --json                Print the page as JSON")
	fmt.Fprintln(w, "      --no-wolai            Skip hosted articles")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printGitHubUsage prints usage for the github command.
func printGitHubUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zerxsite github [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print repositories and statistics of github.owner as JSON.")
	fmt.Fprintln(w, "Falls back to built-in data when the API is unreachable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --stars               Print per-repository stars only")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printOGUsage prints usage for the og command.
func printOGUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zerxsite og [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render the 1200x630 OpenGraph card with headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       PNG output path (default: og.png)")
	fmt.Fprintln(w, "      --title <s>           Card title (default: og.title)")
	fmt.Fprintln(w, "      --subtitle <s>        Card subtitle (default: og.subtitle)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zerxsite config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after applying the file, environment and defaults.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --show-secrets        Print tokens and secrets unredacted")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zerxsite doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, container settings and remote source credentials.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "build":
		printBuildUsage(env.Stdout)
	case "posts":
		printPostsUsage(env.Stdout)
	case "github":
		printGitHubUsage(env.Stdout)
	case "og":
		printOGUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: zerxsite version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: zerxsite help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
