package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"gatesort/internal/decision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gatesort-test.db")
	cat, err := Open(path)
	require.NoError(t, err, "Open failed")
	t.Cleanup(func() { _ = cat.Close() })
	return cat
}

func newSeededCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat := newTestCatalog(t)
	require.NoError(t, cat.Seed(context.Background()))
	return cat
}

func TestFindAirlineRuleByName(t *testing.T) {
	cat := newSeededCatalog(t)

	rule, err := cat.FindAirlineRuleByName(context.Background(), "Aeroméxico")
	require.NoError(t, err)

	assert.Equal(t, "Aeroméxico", rule.AirlineName)
	assert.Equal(t, decision.Discard, rule.Empty, "stored 'Discard' normalizes to lowercase")
	assert.Equal(t, decision.Keep, rule.Partial)
	assert.Equal(t, decision.Keep, rule.Full)
}

func TestFindAirlineRuleByName_NotFound(t *testing.T) {
	cat := newSeededCatalog(t)

	_, err := cat.FindAirlineRuleByName(context.Background(), "Lufthansa")
	assert.ErrorIs(t, err, ErrAirlineNotFound)
}

func TestFindAirlineRuleByName_CaseSensitive(t *testing.T) {
	cat := newSeededCatalog(t)

	// Exact string equality is the lookup contract; no normalization.
	_, err := cat.FindAirlineRuleByName(context.Background(), "volaris")
	assert.ErrorIs(t, err, ErrAirlineNotFound)
}

func TestFindAirlineRuleByName_FirstRuleRowWins(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()

	res, err := cat.db.ExecContext(ctx, `INSERT INTO airlines (name) VALUES (?)`, "Volaris")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	_, err = cat.db.ExecContext(ctx,
		`INSERT INTO bottle_rules (airline_id, empty, partial, full) VALUES (?, 'discard', 'discard', 'keep')`, id)
	require.NoError(t, err)
	_, err = cat.db.ExecContext(ctx,
		`INSERT INTO bottle_rules (airline_id, empty, partial, full) VALUES (?, 'keep', 'keep', 'keep')`, id)
	require.NoError(t, err)

	rule, err := cat.FindAirlineRuleByName(ctx, "Volaris")
	require.NoError(t, err)
	assert.Equal(t, decision.Discard, rule.Empty, "first rule row by id must win")
}

func TestFindAirlineRuleByName_RejectsUnknownDisposition(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()

	res, err := cat.db.ExecContext(ctx, `INSERT INTO airlines (name) VALUES (?)`, "Volaris")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	_, err = cat.db.ExecContext(ctx,
		`INSERT INTO bottle_rules (airline_id, empty, partial, full) VALUES (?, 'incinerate', 'keep', 'keep')`, id)
	require.NoError(t, err)

	_, err = cat.FindAirlineRuleByName(ctx, "Volaris")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "incinerate")
}

func TestListStickerReferences(t *testing.T) {
	cat := newSeededCatalog(t)

	refs, err := cat.ListStickerReferences(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 16, "seed inserts one reference per shape+color combination")

	// Order by primary key keeps the first-match-wins policy stable.
	for i := 1; i < len(refs); i++ {
		assert.Less(t, refs[i-1].ID, refs[i].ID)
	}

	first := refs[0]
	assert.Equal(t, decision.ShapeCircle, first.Shape)
	assert.Equal(t, decision.ColorRed, first.Color)
	assert.Equal(t, "2025-01-01", first.ExpiryDate.Format("2006-01-02"))
}

func TestListStickerReferences_Empty(t *testing.T) {
	cat := newTestCatalog(t)

	refs, err := cat.ListStickerReferences(context.Background())
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestSeed_Idempotent(t *testing.T) {
	cat := newSeededCatalog(t)
	require.NoError(t, cat.Seed(context.Background()), "second seed is a no-op")

	var airlines int
	require.NoError(t, cat.db.QueryRow(`SELECT COUNT(*) FROM airlines`).Scan(&airlines))
	assert.Equal(t, 4, airlines)

	var products int
	require.NoError(t, cat.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&products))
	assert.Equal(t, 4, products)
}
