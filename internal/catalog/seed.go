package catalog

import "context"

// Seed inserts the demo reference set: four airlines with their bottle
// rules, the sixteen shape+color sticker references, sample flights and
// products. Intended for first-run provisioning; it does nothing when
// airlines already exist.
func (c *Catalog) Seed(ctx context.Context) error {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM airlines`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	airlines := []struct {
		name                 string
		empty, partial, full string
	}{
		{"Aeroméxico", "Discard", "Keep", "Keep"},
		{"Volaris", "Discard", "Discard", "Keep"},
		{"VivaAerobus", "Discard", "Keep", "Keep"},
		{"American Airlines", "Discard", "Discard", "Keep"},
	}
	ids := make(map[string]int64, len(airlines))
	for _, a := range airlines {
		res, err := tx.ExecContext(ctx, `INSERT INTO airlines (name) VALUES (?)`, a.name)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		ids[a.name] = id
		_, err = tx.ExecContext(ctx,
			`INSERT INTO bottle_rules (airline_id, empty, partial, full) VALUES (?, ?, ?, ?)`,
			id, a.empty, a.partial, a.full)
		if err != nil {
			return err
		}
	}

	flights := []struct {
		airline string
		number  string
	}{
		{"Aeroméxico", "AM123"}, {"Aeroméxico", "AM234"},
		{"Volaris", "VR123"}, {"Volaris", "VR234"},
		{"VivaAerobus", "VA123"}, {"VivaAerobus", "VA456"},
		{"American Airlines", "AA123"}, {"American Airlines", "AA456"},
	}
	for _, f := range flights {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO flights (airline_id, flight_number) VALUES (?, ?)`,
			ids[f.airline], f.number)
		if err != nil {
			return err
		}
	}

	// One reference per shape+color combination, expiry staggered per shape.
	stickers := []struct {
		shape, color, expiry string
	}{
		{"circle", "red", "2025-01-01"},
		{"circle", "green", "2025-04-01"},
		{"circle", "yellow", "2025-07-01"},
		{"circle", "blue", "2025-10-01"},
		{"square", "red", "2024-01-01"},
		{"square", "green", "2024-04-01"},
		{"square", "yellow", "2024-07-01"},
		{"square", "blue", "2024-10-01"},
		{"triangle", "red", "2026-01-01"},
		{"triangle", "green", "2026-04-01"},
		{"triangle", "yellow", "2026-07-01"},
		{"triangle", "blue", "2026-10-01"},
		{"hexagon", "red", "2027-01-01"},
		{"hexagon", "green", "2027-04-01"},
		{"hexagon", "yellow", "2027-07-01"},
		{"hexagon", "blue", "2027-10-01"},
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stickers (shape, color, caducity_date) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, s := range stickers {
		if _, err := stmt.ExecContext(ctx, s.shape, s.color, s.expiry); err != nil {
			return err
		}
	}

	products := []struct {
		name, expiry, typ string
		stickerID         int64
	}{
		{"Chocolate", "2025-12-31", "Snack", 1},
		{"Agua 500ml", "2026-01-15", "Drink", 2},
		{"Galletas", "2025-11-30", "Snack", 3},
		{"Jugo 250ml", "2025-10-31", "Drink", 4},
	}
	for _, p := range products {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (name, expiration_date, type, sticker_id) VALUES (?, ?, ?, ?)`,
			p.name, p.expiry, p.typ, p.stickerID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
