package stringifier_test

import (
	"testing"

	"github.com/aretw0/svgo/pkg/parser"
	"github.com/aretw0/svgo/pkg/stringifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, input string, opts stringifier.Options) string {
	t.Helper()
	doc, err := parser.Parse(input)
	require.NoError(t, err)
	return stringifier.Stringify(doc, opts)
}

func TestStringify_Compact(t *testing.T) {
	out := render(t, `<svg  a="1">
	<g>
		<rect/>
	</g>
</svg>`, stringifier.DefaultOptions())
	assert.Equal(t, `<svg a="1"><g><rect/></g></svg>`, out)
}

func TestStringify_LongTags(t *testing.T) {
	opts := stringifier.DefaultOptions()
	opts.UseShortTags = false
	assert.Equal(t, `<svg><rect></rect></svg>`, render(t, `<svg><rect/></svg>`, opts))
}

func TestStringify_Pretty(t *testing.T) {
	opts := stringifier.DefaultOptions()
	opts.Pretty = true

	out := render(t, `<?xml version="1.0"?><!-- c --><svg><g><rect/></g><desc>hello</desc></svg>`, opts)
	assert.Equal(t, `<?xml version="1.0"?>
<!--c-->
<svg>
    <g>
        <rect/>
    </g>
    <desc>
        hello
    </desc>
</svg>
`, out)
}

func TestStringify_TabIndentAndCRLF(t *testing.T) {
	opts := stringifier.Options{Pretty: true, Indent: -1, EOL: stringifier.CRLF, UseShortTags: true}
	assert.Equal(t, "<svg>\r\n\t<rect/>\r\n</svg>\r\n", render(t, `<svg><rect/></svg>`, opts))
}

func TestStringify_TextContext(t *testing.T) {
	opts := stringifier.DefaultOptions()
	opts.Pretty = true

	out := render(t, `<svg><text x="1"> a <tspan>b</tspan><tspan/> c</text></svg>`, opts)
	assert.Equal(t, "<svg>\n    <text x=\"1\"> a <tspan>b</tspan><tspan/> c</text>\n</svg>\n", out)
}

func TestStringify_Escaping(t *testing.T) {
	out := render(t, `<svg a="&quot;&amp;'&lt;"><title>'&amp;"</title></svg>`, stringifier.DefaultOptions())
	assert.Equal(t, `<svg a="&quot;&amp;'&lt;"><title>&apos;&amp;&quot;</title></svg>`, out)
}

func TestStringify_FinalNewline(t *testing.T) {
	opts := stringifier.DefaultOptions()
	opts.FinalNewline = true
	assert.Equal(t, "<svg/>\n", render(t, `<svg/>`, opts))

	// pretty output already ends with a newline
	opts.Pretty = true
	assert.Equal(t, "<svg/>\n", render(t, `<svg/>`, opts))
}

func TestStringify_Doctype(t *testing.T) {
	out := render(t, `<!DOCTYPE svg><svg/>`, stringifier.DefaultOptions())
	assert.Equal(t, `<!DOCTYPE svg><svg/>`, out)
}
