package export

import (
	"context"
	"database/sql"

	"qexport/internal/export/errkind"
)

// Describe introspects the query's result shape without fetching any data
// row. A prepare failure classifies as Syntax; anything that prevents column
// metadata from being captured after a successful parse classifies as
// Describe. Metadata is captured exactly once per export; later stages never
// re-query it.
func Describe(ctx context.Context, db *sql.DB, query string) ([]Column, error) {
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, errkind.New(errkind.Syntax, err)
	}
	defer stmt.Close()

	// The cursor is opened but closed before the first fetch; drivers stream
	// rows lazily, so this costs metadata only.
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, errkind.New(errkind.Describe, err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errkind.New(errkind.Describe, err)
	}
	if len(types) == 0 {
		return nil, errkind.Newf(errkind.Describe, "query describes no columns")
	}

	cols := make([]Column, 0, len(types))
	for i, ct := range types {
		cols = append(cols, Column{
			Pos:  i + 1,
			Name: ct.Name(),
			Kind: MapType(ct.DatabaseTypeName()),
		})
	}
	return cols, nil
}
