package zerxsite_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/zerx-lab/zerxsite"
)

// Example renders a note and prints its table of contents.
func Example() {
	r := zerxsite.NewRenderer()

	result := r.Render("# Guide\n\n## Install\n\nRun it.\n\n### From source\n\n- clone\n- build")

	for _, item := range result.TOC {
		fmt.Printf("%d %s %s\n", item.Depth, item.Title, item.URL)
	}
	// Output:
	// 2 Install #install
	// 3 From source #from-source
}

// Example_lists shows that contiguous items share one list.
func Example_lists() {
	result := zerxsite.NewRenderer().Render("- a\n- b")
	fmt.Println(result.HTML)
	// Output:
	// <ul><li>a</li>
	// <li>b</li></ul>
}

// Example_highlighting uses a custom highlighter. Blocks without a language
// tag are never sent to it.
func Example_highlighting() {
	upper := zerxsite.HighlighterFunc(func(_ context.Context, code, _ string) (string, error) {
		return "<pre>" + strings.ToUpper(code) + "</pre>", nil
	})

	r := zerxsite.NewRenderer(zerxsite.WithHighlighter(upper))
	result := r.RenderWithHighlighting(context.Background(), "```go\nfunc main()\n```")

	fmt.Println(strings.Contains(result.HTML, "FUNC MAIN()"))
	// Output: true
}

// ExampleSlugify shows how heading anchors are derived.
func ExampleSlugify() {
	fmt.Println(zerxsite.Slugify("Getting Started, Part 2!"))
	fmt.Println(zerxsite.Slugify("安装 Guide"))
	// Output:
	// getting-started-part-2
	// 安装-guide
}
