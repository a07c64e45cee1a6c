package recipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFile_DeclaresMethod(t *testing.T) {
	file := parseFile(t, `
class A {
    private static Matcher<String> equalTo(String s) { return null; }
    void t() { equalTo("a"); }

    static class Inner {
        void assertThrows() {}
    }
}
`)

	assert.True(t, file.DeclaresMethod("equalTo"))
	assert.True(t, file.DeclaresMethod("t"))
	assert.True(t, file.DeclaresMethod("assertThrows"))
	assert.False(t, file.DeclaresMethod("closeTo"))
}

func TestSourceFile_MethodNames(t *testing.T) {
	file := parseFile(t, "class A {\n    void setUp() {}\n    static class B {\n        int check() { return 0; }\n    }\n}\n")

	t.Run("should collect names with the query", func(t *testing.T) {
		names := file.methodNames(methodNamesQuery)

		assert.Equal(t, map[string]bool{"setUp": true, "check": true}, names)
	})

	t.Run("should walk the tree when the query does not compile", func(t *testing.T) {
		names := file.methodNames(`(method_declaration name: @name`)

		assert.Equal(t, map[string]bool{"setUp": true, "check": true}, names)
	})
}

func TestParseSource_SyntaxError(t *testing.T) {
	_, err := ParseSource(context.Background(), "src/Broken.java", []byte("class A {\n    int x = ;\n}\n"))

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.ErrorIs(t, err, ErrSyntax)
	assert.Equal(t, "src/Broken.java", syntaxErr.Location.File)
	assert.Contains(t, err.Error(), "src/Broken.java:")
}
