package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Apply(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		args  []string
		arity int
		want  string
	}{
		{
			name:  "plain placeholders",
			code:  "assertThat(#{}).isEqualTo(#{})",
			args:  []string{"actual", "expected"},
			arity: 2,
			want:  "assertThat(actual).isEqualTo(expected)",
		},
		{
			name:  "typed placeholders",
			code:  "assertThat(#{any(java.lang.String)}).as(#{any(String)}).contains(#{any()})",
			args:  []string{"s", `"reason"`, `"x"`},
			arity: 3,
			want:  `assertThat(s).as("reason").contains("x")`,
		},
		{
			name:  "named placeholder reused",
			code:  "assertEquals(#{n:any()}, #{a:any()}.size(), #{n:any()} + \" items\")",
			args:  []string{"3", "list"},
			arity: 2,
			want:  `assertEquals(3, list.size(), 3 + " items")`,
		},
		{
			name:  "no placeholders",
			code:  "fail()",
			arity: 0,
			want:  "fail()",
		},
		{
			name:  "generic and array types",
			code:  "#{any(List<String>)} #{any(int[])}",
			args:  []string{"a", "b"},
			arity: 2,
			want:  "a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := NewTemplate(tt.code)

			assert.Equal(t, tt.arity, tmpl.Arity())
			got, err := tmpl.Apply(tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplate_ApplyArity(t *testing.T) {
	tmpl := NewTemplate("assertTrue(#{}, #{})")

	_, err := tmpl.Apply("a")

	assert.ErrorIs(t, err, ErrTemplateArity)
	assert.Equal(t, "assertTrue(#{}, #{})", tmpl.String())
}

func TestVarargs(t *testing.T) {
	assert.Equal(t, "a, b, c", Varargs([]string{"a", "b", "c"}))
	assert.Equal(t, "", Varargs(nil))
}
