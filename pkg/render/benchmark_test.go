package render_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/mdpreview/pkg/minify"
	"github.com/yaklabco/mdpreview/pkg/parser"
	"github.com/yaklabco/mdpreview/pkg/render"
)

// benchDocument is a mixed document of about 40 KiB.
var benchDocument = []byte(strings.Repeat(`# Section heading

Some paragraph text with **strong**, *emphasis*, `+"`code`"+` and a [link](https://example.com).
A second line of the same paragraph.

- first item
- [x] done item
  - nested item

> quoted text
> continues here

`+"```go\nfunc main() {\n\tprintln(\"hi\")\n}\n```"+`

| a | b |
|---|--:|
| 1 | 2 |

---

`, 100))

func BenchmarkParse(b *testing.B) {
	b.SetBytes(int64(len(benchDocument)))
	for range b.N {
		parser.Parse(benchDocument)
	}
}

func BenchmarkRender(b *testing.B) {
	doc := parser.Parse(benchDocument)
	b.SetBytes(int64(len(benchDocument)))
	b.ResetTimer()
	for range b.N {
		render.Render(doc)
	}
}

func BenchmarkNormalize(b *testing.B) {
	b.SetBytes(int64(len(benchDocument)))
	for range b.N {
		minify.Normalize(benchDocument)
	}
}

func BenchmarkOffsetToRow(b *testing.B) {
	res := render.Render(parser.Parse(benchDocument))
	b.ResetTimer()
	for i := range b.N {
		res.Map.OffsetToRow(i % len(benchDocument))
	}
}
