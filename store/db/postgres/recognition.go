package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/store"
)

var recognitionFields = []string{"uid", "request_id", "culture", "category", "text", "start", "length", "timex", "value", "resolved", "modifier", "created_ts"}

func (d *DB) CreateRecognitions(ctx context.Context, create []*store.Recognition) ([]*store.Recognition, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	stmt := `INSERT INTO recognition (` + strings.Join(recognitionFields, ", ") + `)
		VALUES (` + placeholders(len(recognitionFields)) + `)
		RETURNING id`
	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare insert")
	}
	defer prepared.Close()

	for _, r := range create {
		args := []any{r.UID, r.RequestID, r.Culture, r.Category, r.Text, r.Start, r.Length, r.Timex, r.Value, r.Resolved, r.Modifier, r.CreatedTs}
		if err := prepared.QueryRowContext(ctx, args...).Scan(&r.ID); err != nil {
			return nil, errors.Wrapf(err, "failed to create recognition %s", r.UID)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit recognitions")
	}
	return create, nil
}

func (d *DB) ListRecognitions(ctx context.Context, find *store.FindRecognition) ([]*store.Recognition, error) {
	where, args := findRecognitionWhere(find)
	query := `SELECT id, ` + strings.Join(recognitionFields, ", ") + ` FROM recognition WHERE ` + joinWhere(where) + ` ORDER BY created_ts DESC, id DESC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recognitions")
	}
	defer rows.Close()

	list := make([]*store.Recognition, 0)
	for rows.Next() {
		r := &store.Recognition{}
		if err := rows.Scan(&r.ID, &r.UID, &r.RequestID, &r.Culture, &r.Category, &r.Text, &r.Start, &r.Length, &r.Timex, &r.Value, &r.Resolved, &r.Modifier, &r.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan recognition")
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate recognitions")
	}
	return list, nil
}

func (d *DB) CountRecognitions(ctx context.Context, find *store.FindRecognition) ([]*store.RecognitionCount, error) {
	where, args := findRecognitionWhere(find)
	query := `SELECT culture, category, COUNT(*), MAX(created_ts) FROM recognition WHERE ` + joinWhere(where) + `
		GROUP BY culture, category ORDER BY culture, category`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count recognitions")
	}
	defer rows.Close()

	list := make([]*store.RecognitionCount, 0)
	for rows.Next() {
		c := &store.RecognitionCount{}
		if err := rows.Scan(&c.Culture, &c.Category, &c.Count, &c.LastCreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan recognition count")
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate recognition counts")
	}
	return list, nil
}

func (d *DB) DeleteRecognitions(ctx context.Context, delete *store.DeleteRecognition) (int64, error) {
	result, err := d.db.ExecContext(ctx, `DELETE FROM recognition WHERE created_ts < `+placeholder(1), delete.CreatedTsBefore)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete recognitions")
	}
	return result.RowsAffected()
}

// findRecognitionWhere builds the WHERE clause shared by list and count queries.
func findRecognitionWhere(find *store.FindRecognition) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RequestID; v != nil {
		where, args = append(where, "request_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Culture; v != nil {
		where, args = append(where, "culture = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "category = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatedTsAfter; v != nil {
		where, args = append(where, "created_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}
	return where, args
}
