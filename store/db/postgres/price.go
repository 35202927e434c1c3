package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/corrnet/corrnet/store"
)

func (d *DB) UpsertPricePoint(ctx context.Context, upsert *store.PricePoint) (*store.PricePoint, error) {
	stmt := `INSERT INTO price_point (code, date, close)
		VALUES (` + placeholders(3) + `)
		ON CONFLICT(code, date) DO UPDATE SET close = EXCLUDED.close
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, upsert.Code, upsert.Date, upsert.Close).Scan(&upsert.ID); err != nil {
		return nil, errors.Wrap(err, "failed to upsert price point")
	}
	return upsert, nil
}

func (d *DB) ListPricePoints(ctx context.Context, find *store.FindPricePoint) ([]*store.PricePoint, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.Code != nil {
		where, args = append(where, "code = "+placeholder(len(args)+1)), append(args, *find.Code)
	}

	query := `SELECT id, code, date, close
		FROM price_point WHERE ` + strings.Join(where, " AND ") + ` ORDER BY date DESC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list price points")
	}
	defer rows.Close()

	list := make([]*store.PricePoint, 0)
	for rows.Next() {
		point := &store.PricePoint{}
		if err := rows.Scan(&point.ID, &point.Code, &point.Date, &point.Close); err != nil {
			return nil, errors.Wrap(err, "failed to scan price point")
		}
		list = append(list, point)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate price points")
	}
	return list, nil
}

func (d *DB) UpsertDataFreshness(ctx context.Context, upsert *store.DataFreshness) (*store.DataFreshness, error) {
	stmt := `INSERT INTO data_freshness (kind, refreshed_ts)
		VALUES (` + placeholders(2) + `)
		ON CONFLICT(kind) DO UPDATE SET refreshed_ts = EXCLUDED.refreshed_ts`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.Kind, upsert.RefreshedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert data freshness")
	}
	return upsert, nil
}

func (d *DB) ListDataFreshness(ctx context.Context, find *store.FindDataFreshness) ([]*store.DataFreshness, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.Kind != nil {
		where, args = append(where, "kind = "+placeholder(len(args)+1)), append(args, *find.Kind)
	}

	query := `SELECT kind, refreshed_ts FROM data_freshness WHERE ` + strings.Join(where, " AND ") + ` ORDER BY kind`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list data freshness")
	}
	defer rows.Close()

	list := make([]*store.DataFreshness, 0)
	for rows.Next() {
		f := &store.DataFreshness{}
		if err := rows.Scan(&f.Kind, &f.RefreshedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan data freshness")
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate data freshness")
	}
	return list, nil
}
