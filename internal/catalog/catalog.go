// Package catalog is the read-only reference store for the decision layer:
// airlines with their bottle disposition rules, and sticker references with
// expiry dates. Backed by sqlite; the decision layer never writes to it,
// rows are maintained by the seeding step.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gatesort/internal/decision"

	_ "github.com/mattn/go-sqlite3"
)

// ErrAirlineNotFound is returned when no airline matches a rule lookup.
// Matching is exact and case-sensitive; there is no fuzzy fallback.
var ErrAirlineNotFound = errors.New("airline not found")

const dateLayout = "2006-01-02"

// Catalog wraps the sqlite handle holding the reference data.
type Catalog struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog database at path and
// ensures the schema exists.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS airlines (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_airlines_name ON airlines(name);

	CREATE TABLE IF NOT EXISTS bottle_rules (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		airline_id INTEGER NOT NULL REFERENCES airlines(id),
		empty      TEXT NOT NULL,
		partial    TEXT NOT NULL,
		full       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_bottle_rules_airline ON bottle_rules(airline_id);

	CREATE TABLE IF NOT EXISTS stickers (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		shape         TEXT NOT NULL,
		color         TEXT NOT NULL,
		caducity_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS flights (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		airline_id    INTEGER NOT NULL REFERENCES airlines(id),
		flight_number TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		name            TEXT NOT NULL,
		expiration_date TEXT NOT NULL,
		type            TEXT NOT NULL,
		sticker_id      INTEGER NOT NULL REFERENCES stickers(id)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// FindAirlineRuleByName looks up the disposition rule set for the airline
// with exactly the given name. At most one row is used (the first by id);
// ErrAirlineNotFound is returned when nothing matches. Stored disposition
// values are normalized to the canonical lowercase form, and a rule row
// carrying a value outside {keep, discard} is reported as an error rather
// than silently passed through.
func (c *Catalog) FindAirlineRuleByName(ctx context.Context, name string) (decision.AirlineRule, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT a.id, a.name, r.empty, r.partial, r.full
		 FROM airlines a
		 JOIN bottle_rules r ON r.airline_id = a.id
		 WHERE a.name = ?
		 ORDER BY r.id
		 LIMIT 1`, name)

	var rule decision.AirlineRule
	var empty, partial, full string
	err := row.Scan(&rule.AirlineID, &rule.AirlineName, &empty, &partial, &full)
	if errors.Is(err, sql.ErrNoRows) {
		return decision.AirlineRule{}, fmt.Errorf("%w: %s", ErrAirlineNotFound, name)
	}
	if err != nil {
		return decision.AirlineRule{}, err
	}

	if rule.Empty, err = decision.ParseDisposition(empty); err != nil {
		return decision.AirlineRule{}, fmt.Errorf("rule for %s: %w", name, err)
	}
	if rule.Partial, err = decision.ParseDisposition(partial); err != nil {
		return decision.AirlineRule{}, fmt.Errorf("rule for %s: %w", name, err)
	}
	if rule.Full, err = decision.ParseDisposition(full); err != nil {
		return decision.AirlineRule{}, fmt.Errorf("rule for %s: %w", name, err)
	}

	return rule, nil
}

// ListStickerReferences returns the full sticker reference set ordered by
// primary key. The aggregator's first-match-wins policy depends on this
// ordering being stable across calls.
func (c *Catalog) ListStickerReferences(ctx context.Context) ([]decision.StickerReference, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, shape, color, caducity_date FROM stickers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []decision.StickerReference
	for rows.Next() {
		var ref decision.StickerReference
		var shape, color, expiry string
		if err := rows.Scan(&ref.ID, &shape, &color, &expiry); err != nil {
			return nil, err
		}
		ref.Shape = decision.Shape(shape)
		ref.Color = decision.Color(color)
		ref.ExpiryDate, err = time.ParseInLocation(dateLayout, expiry, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("sticker %d: bad caducity date %q: %w", ref.ID, expiry, err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
