package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.Len(t, c.Entries, 4)
	require.Equal(t, 1240, c.Impact.OrphansSponsored)
	require.Equal(t, int64(2500000), c.Impact.DonationsRaised)

	// newest first
	require.Equal(t, "b1", c.Entries[0].ID)
	require.Equal(t, "2026-02-10", c.Entries[0].Date)
}

func TestPostsFiltersByCategory(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	got := c.Posts("programmes")
	require.Len(t, got, 1)
	require.Equal(t, "b3", got[0].ID)
	require.Empty(t, got[0].Content)

	require.Len(t, c.Posts(""), 4)
	require.Empty(t, c.Posts("unknown"))
}

func TestPostLookup(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	p, err := c.Post("b2")
	require.NoError(t, err)
	require.Contains(t, p.Content, "320 orphelins")

	_, err = c.Post("nope")
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte("posts:\n  - id: a\n  - id: a\n"))
	require.Error(t, err)

	_, err = Parse([]byte("posts:\n  - title: untitled\n"))
	require.Error(t, err)
}

func TestCategories(t *testing.T) {
	c, err := Parse([]byte(`
posts:
  - {id: a, category: X, date: "2026-01-03"}
  - {id: b, category: Y, date: "2026-01-02"}
  - {id: c, category: X, date: "2026-01-01"}
`))
	require.NoError(t, err)
	require.Equal(t, []string{"X", "Y"}, c.Categories())
}
