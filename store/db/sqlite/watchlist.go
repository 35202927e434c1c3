package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/corrnet/corrnet/store"
)

func (d *DB) CreateWatchItem(ctx context.Context, create *store.WatchItem) (*store.WatchItem, error) {
	fields := []string{"user_id", "code", "name", "created_ts"}
	args := []any{create.UserID, create.Code, create.Name, create.CreatedTs}

	stmt := `INSERT INTO watch_item (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create watch item")
	}
	return create, nil
}

func (d *DB) ListWatchItems(ctx context.Context, find *store.FindWatchItem) ([]*store.WatchItem, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.Code != nil {
		where, args = append(where, "code = "+placeholder(len(args)+1)), append(args, *find.Code)
	}

	query := `SELECT id, user_id, code, name, created_ts
		FROM watch_item WHERE ` + strings.Join(where, " AND ") + ` ORDER BY code`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list watch items")
	}
	defer rows.Close()

	list := make([]*store.WatchItem, 0)
	for rows.Next() {
		item := &store.WatchItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.Code, &item.Name, &item.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan watch item")
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate watch items")
	}
	return list, nil
}

func (d *DB) DeleteWatchItem(ctx context.Context, delete *store.DeleteWatchItem) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM watch_item WHERE id = `+placeholder(1), delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete watch item")
	}
	return nil
}
