package hamcrest

import (
	"testing"

	"github.com/specvital/migrate/pkg/recipe/recipetest"
)

func TestRemoveIsMatcher(t *testing.T) {
	r := NewRemoveIsMatcher()

	t.Run("unwraps matcher", func(t *testing.T) {
		recipetest.RewritesTo(t, r, `import static org.hamcrest.MatcherAssert.assertThat;
import static org.hamcrest.Matchers.equalTo;
import static org.hamcrest.Matchers.is;

class FooTest {
    void t() {
        assertThat(a, is(equalTo(b)));
        assertThat("reason", a, (is(equalTo(c))));
    }
}
`, `import static org.hamcrest.MatcherAssert.assertThat;
import static org.hamcrest.Matchers.equalTo;

class FooTest {
    void t() {
        assertThat(a, equalTo(b));
        assertThat("reason", a, (equalTo(c)));
    }
}
`)
	})

	t.Run("keeps is of a value", func(t *testing.T) {
		recipetest.Unchanged(t, r, `import static org.hamcrest.MatcherAssert.assertThat;
import static org.hamcrest.Matchers.is;

class FooTest {
    void t() {
        assertThat(a, is(b));
    }
}
`)
	})

	t.Run("nested is unwraps across cycles", func(t *testing.T) {
		recipetest.RewritesTo(t, r, `import static org.hamcrest.Matchers.*;
import static org.hamcrest.MatcherAssert.assertThat;

class FooTest {
    void t() {
        assertThat(a, is(is(empty())));
    }
}
`, `import static org.hamcrest.Matchers.*;
import static org.hamcrest.MatcherAssert.assertThat;

class FooTest {
    void t() {
        assertThat(a, empty());
    }
}
`)
	})
}
