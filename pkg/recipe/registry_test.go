package recipe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	// When
	r := NewRegistry()

	// Then
	require.NotNil(t, r)
	assert.Empty(t, r.All())
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("should list recipes sorted by name", func(t *testing.T) {
		t.Parallel()

		// Given
		r := NewRegistry()

		// When
		r.Register(namedRecipe("specvital.b.Second"))
		r.Register(namedRecipe("specvital.a.First"))

		// Then
		all := r.All()
		require.Len(t, all, 2)
		assert.Equal(t, "specvital.a.First", all[0].Name())
		assert.Equal(t, "specvital.b.Second", all[1].Name())
	})

	t.Run("should replace recipe with the same name", func(t *testing.T) {
		t.Parallel()

		// Given
		r := NewRegistry()
		r.Register(namedRecipe("specvital.a.First"))

		// When
		replacement := NewComposite("specvital.a.First", "First", "")
		r.Register(replacement)

		// Then
		assert.Len(t, r.All(), 1)
		assert.Same(t, replacement, r.Find("specvital.a.First"))
	})
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(namedRecipe("specvital.junit5.AssertToAssertions"))
	r.Register(namedRecipe("specvital.hamcrest.Migrate"))
	r.Register(namedRecipe("specvital.junit5.Migrate"))

	tests := []struct {
		name    string
		lookup  string
		want    string
		wantErr bool
	}{
		{name: "exact", lookup: "specvital.junit5.AssertToAssertions", want: "specvital.junit5.AssertToAssertions"},
		{name: "unique suffix", lookup: "AssertToAssertions", want: "specvital.junit5.AssertToAssertions"},
		{name: "qualified suffix", lookup: "junit5.Migrate", want: "specvital.junit5.Migrate"},
		{name: "ambiguous suffix", lookup: "Migrate", wantErr: true},
		{name: "unknown", lookup: "Nope", wantErr: true},
		{name: "partial segment", lookup: "Assertions", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, err := r.Lookup(tt.lookup)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRecipe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Name())
		})
	}
}

func TestRegistry_Clear(t *testing.T) {
	t.Parallel()

	// Given
	r := NewRegistry()
	r.Register(namedRecipe("specvital.a.First"))

	// When
	r.Clear()

	// Then
	assert.Empty(t, r.All())
	assert.Nil(t, r.Find("specvital.a.First"))
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Register(namedRecipe("specvital.a.First"))
			_ = r.All()
			_, _ = r.Lookup("First")
		}()
	}
	wg.Wait()

	assert.Len(t, r.All(), 1)
}
