package sqlite

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/store"
)

func (d *DB) UpsertSystemSetting(ctx context.Context, upsert *store.SystemSetting) (*store.SystemSetting, error) {
	stmt := `
		INSERT INTO system_setting (name, value, description)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE
		SET value = EXCLUDED.value, description = EXCLUDED.description`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.Name, upsert.Value, upsert.Description); err != nil {
		return nil, errors.Wrapf(err, "failed to upsert system setting %s", upsert.Name)
	}
	return upsert, nil
}

func (d *DB) ListSystemSettings(ctx context.Context, find *store.FindSystemSetting) ([]*store.SystemSetting, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.Name != "" {
		where, args = append(where, "name = ?"), append(args, find.Name)
	}

	rows, err := d.db.QueryContext(ctx, `SELECT name, value, description FROM system_setting WHERE `+joinWhere(where), args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list system settings")
	}
	defer rows.Close()

	list := []*store.SystemSetting{}
	for rows.Next() {
		s := &store.SystemSetting{}
		if err := rows.Scan(&s.Name, &s.Value, &s.Description); err != nil {
			return nil, errors.Wrap(err, "failed to scan system setting")
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
