package macros

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadTable returns the built-in defaults merged with rows from the macro
// table, ordered by sort_order so that deployment-specific phrases rank
// after the built-ins. A trigger collision replaces the built-in template.
func LoadTable(ctx context.Context, pool *pgxpool.Pool) (*Table, error) {
	t := Defaults()
	rows, err := pool.Query(ctx, `SELECT trigger, template, category FROM macro ORDER BY sort_order, trigger`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m Macro
		var category *string
		if err := rows.Scan(&m.Trigger, &m.Template, &category); err != nil {
			return nil, err
		}
		if category != nil {
			m.Category = *category
		}
		t.Add(m)
	}
	return t, rows.Err()
}
