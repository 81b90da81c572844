package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/findoc/internal/document"
)

func bundle(id, hash string, created time.Time) *document.Bundle {
	return &document.Bundle{
		ID:          id,
		ContentHash: hash,
		CreatedAt:   created,
		Text:        "Holdings",
		Tables: []document.Table{{
			Headers: []string{"Name", "Value"},
			Rows:    [][]string{{"Apple", "$100"}},
			Type:    document.TableSecurities,
			Columns: []document.Column{
				{Name: "Name", Type: document.ColumnText, Index: 0},
				{Name: "Value", Type: document.ColumnCurrency, Index: 1},
			},
			Records: []document.Record{{
				"Name":  document.TextValue(document.ColumnText, "Apple"),
				"Value": document.NumberValue(document.ColumnCurrency, 100),
			}},
		}},
		Metadata: document.Metadata{FileName: id + ".txt", Title: id},
	}
}

func TestMemory_PutGetRestoresKinds(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Put(ctx, bundle("a", "h1", time.Now())))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got.Tables, 1)
	v := got.Tables[0].Records[0]["Value"]
	assert.Equal(t, document.ColumnCurrency, v.Kind)
	assert.Equal(t, 100.0, v.Number)
	assert.Equal(t, document.ColumnText, got.Tables[0].Records[0]["Name"].Kind)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Put(ctx, bundle("a", "", time.Now())))

	first, err := m.Get(ctx, "a")
	require.NoError(t, err)
	first.Text = "changed"

	second, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Holdings", second.Text)
}

func TestMemory_NotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete(ctx, "missing"), ErrNotFound)
}

func TestMemory_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.Put(ctx, bundle("old", "", base)))
	require.NoError(t, m.Put(ctx, bundle("new", "", base.Add(time.Hour))))

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, 1, list[0].Tables)
	assert.Equal(t, "new.txt", list[0].FileName)
}

func TestMemory_FindByHashAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Put(ctx, bundle("a", "h1", time.Now())))

	id, err := m.FindByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "a", id)

	id, err = m.FindByHash(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, m.Delete(ctx, "a"))
	id, err = m.FindByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestMemory_TTLEviction(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Put(ctx, bundle("a", "h1", now)))

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemory_CleanupEvictsExpired(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Put(ctx, bundle("old", "h1", now)))

	m.now = func() time.Time { return now.Add(30 * time.Second) }
	require.NoError(t, m.Put(ctx, bundle("new", "h2", now)))

	m.now = func() time.Time { return now.Add(90 * time.Second) }
	m.Cleanup()

	assert.NotContains(t, m.entries, "old")
	assert.Contains(t, m.entries, "new")
}
