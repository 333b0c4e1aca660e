package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAttrPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  []string
	}{
		{"foo", []string{"foo"}},
		{"foo.bar", []string{"foo", "bar"}},
		{"a.b.c", []string{"a", "b", "c"}},
		{`foo."bar.baz"`, []string{"foo", `"bar.baz"`}},
		{`"a.b".c`, []string{`"a.b"`, "c"}},
		{`foo."x\"y"`, []string{"foo", `"x\"y"`}},
		{"a.${b}.c", []string{"a", "${b}", "c"}},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			segments, err := SplitAttrPath(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, segments)
		})
	}
}

func TestSplitAttrPathErrors(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", ".", "a.", ".a", `a."b`, "a.${b"} {
		_, err := SplitAttrPath(input)
		assert.ErrorIs(t, err, ErrInvalidSegment, "input %q", input)
	}
}

func TestFormatSegment(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "foo", FormatSegment("foo"))
	assert.Equal(t, "foo-bar", FormatSegment("foo-bar"))
	assert.Equal(t, "foo'", FormatSegment("foo'"))
	assert.Equal(t, `"bar.baz"`, FormatSegment("bar.baz"))
	assert.Equal(t, `"1st"`, FormatSegment("1st"))
	assert.Equal(t, `"-x"`, FormatSegment("-x"))
	assert.Equal(t, `"a\"b"`, FormatSegment(`a"b`))
	assert.Equal(t, `"a\${b}"`, FormatSegment("a${b}"))
}
