package recipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/migrate/pkg/parser/javaast"
)

func importVisitor(visit func(*SourceFile, *ChangeSet)) *funcVisitor {
	return &funcVisitor{
		name: "test.Imports",
		visit: func(file *SourceFile, changes *ChangeSet) error {
			visit(file, changes)
			return nil
		},
	}
}

func TestFixImports(t *testing.T) {
	tests := []struct {
		name   string
		source string
		visit  func(*SourceFile, *ChangeSet)
		want   string
	}{
		{
			name: "replaces static import with same member name",
			source: `package p;

import static org.junit.Assert.assertEquals;

import org.junit.Test;

class T {
    @Test
    void t() {
        assertEquals(1, 2);
    }
}
`,
			visit: func(file *SourceFile, changes *ChangeSet) {
				old := javaast.NewStaticImport("org.junit.Assert", "assertEquals")
				if file.Imports.Has(old) {
					changes.MaybeRemoveImport(old)
					changes.AddImport(javaast.NewStaticImport("org.junit.jupiter.api.Assertions", "assertEquals"))
				}
			},
			want: `package p;

import org.junit.Test;

import static org.junit.jupiter.api.Assertions.assertEquals;

class T {
    @Test
    void t() {
        assertEquals(1, 2);
    }
}
`,
		},
		{
			name: "inserts after package when file has no imports",
			source: `package p;

class T {
    List<String> xs;
}
`,
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.AddImport(javaast.NewImport("java.util.List"))
			},
			want: `package p;

import java.util.List;

class T {
    List<String> xs;
}
`,
		},
		{
			name:   "inserts at top without package",
			source: "class T {\n    List<String> xs;\n}\n",
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.AddImport(javaast.NewImport("java.util.List"))
			},
			want: "import java.util.List;\n\nclass T {\n    List<String> xs;\n}\n",
		},
		{
			name:   "skips unreferenced additions",
			source: "class T {\n    List<String> xs;\n}\n",
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.AddImport(javaast.NewImport("java.util.Map"))
			},
			want: "class T {\n    List<String> xs;\n}\n",
		},
		{
			name:   "skips additions covered by wildcard",
			source: "import java.util.*;\n\nclass T {\n    List<String> xs;\n}\n",
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.AddImport(javaast.NewImport("java.util.List"))
			},
			want: "import java.util.*;\n\nclass T {\n    List<String> xs;\n}\n",
		},
		{
			name:   "keeps group sorted",
			source: "import a.A;\nimport c.C;\n\nclass T {\n    A a;\n    B b;\n    C c;\n}\n",
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.AddImport(javaast.NewImport("b.B"))
			},
			want: "import a.A;\nimport b.B;\nimport c.C;\n\nclass T {\n    A a;\n    B b;\n    C c;\n}\n",
		},
		{
			name:   "keeps referenced import",
			source: "import a.A;\n\nclass T {\n    A a;\n}\n",
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.MaybeRemoveImport(javaast.NewImport("a.A"))
			},
			want: "import a.A;\n\nclass T {\n    A a;\n}\n",
		},
		{
			name:   "removes adjacent lines and one blank line",
			source: "import a.A;\n\nimport static x.Y.m;\nimport static x.Y.n;\n\nclass T {\n    A a;\n}\n",
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.MaybeRemoveImport(javaast.NewStaticImport("x.Y", "m"))
				changes.MaybeRemoveImport(javaast.NewStaticImport("x.Y", "n"))
			},
			want: "import a.A;\n\nclass T {\n    A a;\n}\n",
		},
		{
			name:   "removes static wildcard when no member is used",
			source: "import static org.hamcrest.Matchers.*;\n\nclass T {\n    int x;\n}\n",
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.MaybeRemoveStaticWildcard("org.hamcrest.Matchers", "equalTo", "is")
			},
			want: "class T {\n    int x;\n}\n",
		},
		{
			name:   "keeps static wildcard while a member is used",
			source: "import static org.hamcrest.Matchers.*;\n\nclass T {\n    Object m = equalTo(1);\n}\n",
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.MaybeRemoveStaticWildcard("org.hamcrest.Matchers", "equalTo", "is")
			},
			want: "import static org.hamcrest.Matchers.*;\n\nclass T {\n    Object m = equalTo(1);\n}\n",
		},
		{
			name:   "removes static wildcard while another wildcard serves unqualified calls",
			source: "import static org.hamcrest.Matchers.*;\nimport static org.mockito.Mockito.*;\n\nclass T {\n    Object m = mock(Object.class);\n}\n",
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.MaybeRemoveStaticWildcard("org.hamcrest.Matchers", "equalTo", "is")
			},
			want: "import static org.mockito.Mockito.*;\n\nclass T {\n    Object m = mock(Object.class);\n}\n",
		},
		{
			name:   "opens static group after existing imports",
			source: "import java.util.List;\n\nclass T {\n    List<String> xs = emptyList();\n}\n",
			visit: func(_ *SourceFile, changes *ChangeSet) {
				changes.AddImport(javaast.NewStaticImport("java.util.Collections", "emptyList"))
			},
			want: "import java.util.List;\n\nimport static java.util.Collections.emptyList;\n\nclass T {\n    List<String> xs = emptyList();\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Execute(context.Background(), importVisitor(tt.visit), "T.java", []byte(tt.source))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(result.After))
		})
	}
}

func TestReferences(t *testing.T) {
	file := parseFile(t, `package a.b;

import java.util.List;

class T {
    List<String> xs = emptyList();
    Object view = Collections.unmodifiableList(xs).stream();
    int size = this.count;
}
`)

	refs := References(file)

	assert.True(t, refs["Collections"])
	assert.False(t, refs["unmodifiableList"])
	assert.False(t, refs["stream"])
	assert.False(t, refs["count"])
	assert.True(t, refs["List"])
	assert.True(t, refs["emptyList"])
	assert.True(t, refs["xs"])
	assert.False(t, refs["util"])
	assert.False(t, refs["b"])
}
