package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/catalog"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	catalogStore = seedStore(t)
	t.Cleanup(resetCLI)
	all, err := catalogStore.Catalog(context.Background())
	require.NoError(t, err)
	var out bytes.Buffer
	return &shell{ctx: context.Background(), out: &out, session: catalog.NewSession(all, 2)}, &out
}

func TestShell_FiltersAndPaging(t *testing.T) {
	sh, out := newTestShell(t)

	more, err := sh.exec("brand Apple, Sony")
	require.NoError(t, err)
	assert.True(t, more)
	assert.Len(t, sh.session.Filtered(), 3)
	assert.Contains(t, out.String(), "page 1 of 2")

	_, err = sh.exec("next")
	require.NoError(t, err)
	assert.Equal(t, 2, sh.session.Page())
	_, err = sh.exec("sort price-desc")
	require.NoError(t, err)
	assert.Equal(t, 1, sh.session.Page(), "criteria change returns to page 1")
	assert.Equal(t, 3, sh.session.View().Items[0].ID)

	_, err = sh.exec("price - 1000")
	require.NoError(t, err)
	assert.Len(t, sh.session.Filtered(), 2)

	_, err = sh.exec("instock")
	require.NoError(t, err)
	assert.True(t, sh.session.Criteria().InStockOnly)

	_, err = sh.exec("search nothing-like-this")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No products match")

	_, err = sh.exec("reset")
	require.NoError(t, err)
	assert.Len(t, sh.session.Filtered(), 4)
	assert.Equal(t, catalog.RawCriteria{}, sh.raw)

	_, err = sh.exec("perpage 3")
	require.NoError(t, err)
	_, err = sh.exec("page 9")
	require.NoError(t, err)
	assert.Equal(t, 2, sh.session.Page())

	more, err = sh.exec("quit")
	require.NoError(t, err)
	assert.False(t, more)
}

func TestShell_ShowReviewRefresh(t *testing.T) {
	sh, out := newTestShell(t)

	_, err := sh.exec("review 4 1 ana too tight on the ears")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "rated 1.0")

	_, err = sh.exec("sort rating-desc")
	require.NoError(t, err)
	filtered := sh.session.Filtered()
	assert.Equal(t, 4, filtered[len(filtered)-1].ID, "session sees the new review")

	out.Reset()
	_, err = sh.exec("show 4")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1/5  ana: too tight on the ears")

	out.Reset()
	_, err = sh.exec("facets")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Apple, Samsung, Sony")
}

func TestShell_Errors(t *testing.T) {
	sh, _ := newTestShell(t)

	for _, line := range []string{"page x", "perpage y", "show abc", "show 99", "review 1", "review 1 x a b", "bogus"} {
		more, err := sh.exec(line)
		assert.Error(t, err, line)
		assert.True(t, more, line)
	}
	more, err := sh.exec("   ")
	assert.NoError(t, err)
	assert.True(t, more)
}

func TestShellCommand(t *testing.T) {
	defer resetCLI()
	catalogStore = seedStore(t)
	rootCmd.SetIn(strings.NewReader("search phone\nhelp\nexit\n"))

	out, err := run("--per-page", "2", "shell", "--no-banner")
	require.NoError(t, err)
	assert.Contains(t, out, "4 products loaded")
	assert.Contains(t, out, "storefront> ")
	assert.Contains(t, out, "iPhone 15")
	assert.Contains(t, out, "perpage <n>")
	assert.Contains(t, out, "filter by title, brand or description")

	resetFlags(rootCmd)
	rootCmd.SetIn(strings.NewReader("list"))
	out, err = run("shell")
	require.NoError(t, err, "EOF ends the session")
	assert.Greater(t, strings.Count(out, "\n"), 5, "banner is printed")
}
