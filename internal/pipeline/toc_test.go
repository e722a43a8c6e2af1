package pipeline

import (
	"reflect"
	"testing"
)

func TestExtractTOC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []TOCItem
	}{
		{
			name: "no headings",
			html: "<p>x</p>",
		},
		{
			name: "depth filter",
			html: `<h1 id="t">T</h1><h2 id="a">A</h2><h3 id="b">B</h3><h4 id="c">C</h4>`,
			want: []TOCItem{
				{Title: "A", URL: "#a", Depth: 2},
				{Title: "B", URL: "#b", Depth: 3},
			},
		},
		{
			name: "inline tags stripped and entities decoded",
			html: `<h2 id="x">A &amp; <em>B</em></h2>`,
			want: []TOCItem{{Title: "A & B", URL: "#x", Depth: 2}},
		},
		{
			name: "headings without id skipped",
			html: `<h2>Plain</h2><h2 class="k" id="y">Y</h2>`,
			want: []TOCItem{{Title: "Y", URL: "#y", Depth: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractTOC(tt.html); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTOC() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
