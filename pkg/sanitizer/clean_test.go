package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/sanitizer"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "Team Phoenix 42",
			expected: "Team Phoenix 42",
		},
		{
			name:     "strips null bytes",
			input:    "abc\x00def",
			expected: "abcdef",
		},
		{
			name:     "normalizes combining sequence to composed form",
			input:    "café",
			expected: "café",
		},
		{
			name:     "removes script block with content",
			input:    "before<script>alert(1)</script>after",
			expected: "beforeafter",
		},
		{
			name:     "removes mixed case script block",
			input:    "<ScRiPt type=\"text/javascript\">steal()</sCrIpT>x",
			expected: "x",
		},
		{
			name:     "removes interleaved script fragments",
			input:    "<scr<script>inner</script>ipt>alert(1)</script>",
			expected: "",
		},
		{
			name:     "removes inline event handler with bare value",
			input:    "<img src=x onerror=alert(1)>",
			expected: "&lt;img src&#x3D;x&gt;",
		},
		{
			name:     "removes inline event handler with quoted value",
			input:    `click onclick="doEvil()" me`,
			expected: "click me",
		},
		{
			name:     "removes javascript scheme in any casing",
			input:    "JaVaScRiPt:alert(1)",
			expected: "alert(1)",
		},
		{
			name:     "encodes html reserved characters",
			input:    "<b>X</b>",
			expected: "&lt;b&gt;X&lt;&#x2F;b&gt;",
		},
		{
			name:     "encodes apostrophe",
			input:    "O'Brien",
			expected: "O&#x27;Brien",
		},
		{
			name:     "encodes bare ampersand",
			input:    "Tom & Jerry",
			expected: "Tom &amp; Jerry",
		},
		{
			name:     "preserves existing entity reference",
			input:    "Tom &amp; Jerry",
			expected: "Tom &amp; Jerry",
		},
		{
			name:     "preserves numeric entity reference",
			input:    "A &#38; B &#x26; C",
			expected: "A &#38; B &#x26; C",
		},
		{
			name:     "collapses whitespace runs and trims",
			input:    "  team \t name \n here  ",
			expected: "team name here",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    " \t\n ",
			expected: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.Clean(tt.input))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"plain text",
		"<script>alert(1)</script>",
		"<img src=x onerror=alert(1)>",
		"JaVaScRiPt:alert(document.cookie)",
		"Tom & Jerry &amp; friends",
		"&amp;&lt;&gt;&quot;&#x27;&#x2F;&#x3D;&#x60;",
		"O'Brien <b>bold</b> a=b `tick` /slash/",
		"  spaced \t out \n text  ",
		"javascjavascript:ript:alert(1)",
		"&amp",
		"café \x00 null",
	}

	for _, input := range inputs {
		once := sanitizer.Clean(input)
		twice := sanitizer.Clean(once)
		assert.Equal(t, once, twice, "Clean must be idempotent for %q", input)
	}
}

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a&#x3D;b", sanitizer.EscapeHTML("a=b"))
	assert.Equal(t, "&#x60;cmd&#x60;", sanitizer.EscapeHTML("`cmd`"))
	assert.Equal(t, "&quot;quoted&quot;", sanitizer.EscapeHTML(`"quoted"`))

	// Double application must not double-encode.
	once := sanitizer.EscapeHTML("a & b < c")
	assert.Equal(t, once, sanitizer.EscapeHTML(once))
}

func TestCompose(t *testing.T) {
	t.Parallel()

	pipeline := sanitizer.Compose(
		sanitizer.StripNullBytes,
		sanitizer.CollapseWhitespace,
	)
	assert.Equal(t, "a b", pipeline(" a \x00 b "))
}
