package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMethodMatcher_Invalid(t *testing.T) {
	patterns := []string{
		"",
		"assertThat(..)",
		"org.junit.Assert assertThat",
		"org.junit.Assert (..)",
		"org.junit.Assert assertThat(String,)",
		"org.junit.[Assert assertThat(..)",
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			_, err := NewMethodMatcher(p)
			assert.ErrorIs(t, err, ErrInvalidPattern)
		})
	}

	assert.Panics(t, func() { MustMethodMatcher("nope") })
}

func TestMethodMatcher_MatchesType(t *testing.T) {
	tests := []struct {
		pattern string
		fqn     string
		want    bool
	}{
		{"org.junit.Assert x()", "org.junit.Assert", true},
		{"org.junit.Assert x()", "org.junit.Assume", false},
		{"org.hamcrest.*Matchers x()", "org.hamcrest.CoreMatchers", true},
		{"org.hamcrest.*Matchers x()", "org.hamcrest.core.Matchers", false},
		{"org.hamcrest..* x()", "org.hamcrest.core.Is", true},
		{"org.hamcrest..* x()", "org.hamcrest.Matchers", true},
		{"org.junit..Assert x()", "org.junit.Assert", true},
		{"org.junit..Assert x()", "org.junit.framework.Assert", true},
		{"* x()", "com.acme.Anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.fqn, func(t *testing.T) {
			m := MustMethodMatcher(tt.pattern)
			assert.Equal(t, tt.want, m.MatchesType(tt.fqn))
		})
	}
}

func TestMethodMatcher_Matches(t *testing.T) {
	file := parseFile(t, `package p;

import static org.junit.Assert.assertEquals;
import static org.hamcrest.Matchers.*;

import org.junit.Assert;

class FooTest {
    void t() {
        assertEquals("msg", 1, 2);
        Assert.assertTrue(flag);
        org.junit.Assert.assertNull(value);
        assertThat(x, equalTo(1));
        helper();
    }

    void helper() {}
}
`)

	tests := []struct {
		name    string
		pattern string
		call    string
		want    bool
	}{
		{"static import", "org.junit.Assert assertEquals(..)", "assertEquals", true},
		{"name wildcard", "org.junit.Assert assert*(..)", "assertEquals", true},
		{"typed args", "org.junit.Assert assertEquals(String, int, int)", "assertEquals", true},
		{"typed args mismatch", "org.junit.Assert assertEquals(int, ..)", "assertEquals", false},
		{"rest in the middle", "org.junit.Assert assertEquals(.., int)", "assertEquals", true},
		{"arity", "org.junit.Assert assertEquals(*, *)", "assertEquals", false},
		{"wrong type", "org.junit.Assume assertEquals(..)", "assertEquals", false},
		{"type receiver", "org.junit.Assert assertTrue(..)", "assertTrue", true},
		{"qualified receiver", "org.junit.Assert assertNull(*)", "assertNull", true},
		{"static wildcard", "org.hamcrest.Matchers equalTo(*)", "equalTo", true},
		{"static wildcard other owner", "org.assertj..* equalTo(*)", "equalTo", false},
		{"local method", "org.junit.Assert helper()", "helper", false},
		{"local method owner", "p.FooTest helper()", "helper", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustMethodMatcher(tt.pattern)
			assert.Equal(t, tt.want, m.Matches(file, findCall(t, file, tt.call)))
		})
	}
}

func TestMethodMatcher_DeclaringType(t *testing.T) {
	file := parseFile(t, `
import static org.hamcrest.CoreMatchers.*;
import static org.hamcrest.Matchers.*;

class T {
    void t() {
        assertThat(x, hasSize(1));
    }
}
`)

	m := MustMethodMatcher("org.hamcrest.Matchers *(..)")
	owner, ok := m.DeclaringType(file, findCall(t, file, "hasSize"))
	require.True(t, ok)
	assert.Equal(t, "org.hamcrest.Matchers", owner)
	assert.Equal(t, "org.hamcrest.Matchers *(..)", m.String())
}
