package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/migrate/pkg/parser/javaast"
)

func TestApplyEdits(t *testing.T) {
	source := []byte("0123456789")

	tests := []struct {
		name  string
		edits []Edit
		want  string
	}{
		{
			name: "no edits",
			want: "0123456789",
		},
		{
			name:  "single replacement",
			edits: []Edit{{Start: 2, End: 4, Text: "ab"}},
			want:  "01ab456789",
		},
		{
			name: "unordered edits",
			edits: []Edit{
				{Start: 8, End: 10, Text: "X"},
				{Start: 0, End: 1, Text: "Y"},
			},
			want: "Y1234567X",
		},
		{
			name: "insertions keep recording order",
			edits: []Edit{
				{Start: 5, End: 5, Text: "a"},
				{Start: 5, End: 5, Text: "b"},
			},
			want: "01234ab56789",
		},
		{
			name: "insertion at start of replacement",
			edits: []Edit{
				{Start: 3, End: 6, Text: "-"},
				{Start: 3, End: 3, Text: "+"},
			},
			want: "012+-6789",
		},
		{
			name: "adjacent replacements",
			edits: []Edit{
				{Start: 0, End: 5, Text: "a"},
				{Start: 5, End: 10, Text: "b"},
			},
			want: "ab",
		},
		{
			name:  "deletion",
			edits: []Edit{{Start: 0, End: 10}},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyEdits(source, tt.edits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}

	t.Run("overlap", func(t *testing.T) {
		_, err := ApplyEdits(source, []Edit{{Start: 0, End: 5}, {Start: 4, End: 6}})
		assert.ErrorIs(t, err, ErrOverlappingEdits)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := ApplyEdits(source, []Edit{{Start: 5, End: 11}})
		assert.Error(t, err)
	})

	t.Run("source is not modified", func(t *testing.T) {
		_, err := ApplyEdits(source, []Edit{{Start: 0, End: 1, Text: "X"}})
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(source))
	})
}

func TestChangeSet(t *testing.T) {
	var c ChangeSet
	assert.True(t, c.Empty())

	c.Insert(4, "x")
	c.ReplaceRange(1, 2, "y")
	c.AddImport(javaast.NewImport("a.B"))
	c.AddImport(javaast.NewImport("a.B"))
	c.MaybeRemoveStaticWildcard("c.D", "m")

	assert.False(t, c.Empty())
	assert.Equal(t, []Edit{{Start: 1, End: 2, Text: "y"}, {Start: 4, End: 4, Text: "x"}}, c.Edits())
	assert.Len(t, c.adds, 1)
	require.Len(t, c.removes, 1)
	assert.True(t, c.removes[0].imp.Wildcard)
	assert.Equal(t, []string{"m"}, c.removes[0].members)
}
