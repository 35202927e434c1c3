package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/corrnet/corrnet/store"
)

func (d *DB) CreatePortfolioItem(ctx context.Context, create *store.PortfolioItem) (*store.PortfolioItem, error) {
	fields := []string{"user_id", "code", "name", "amount", "purchase_price", "purchase_date", "created_ts", "updated_ts"}
	args := []any{create.UserID, create.Code, create.Name, create.Amount, create.PurchasePrice, create.PurchaseDate, create.CreatedTs, create.UpdatedTs}

	stmt := `INSERT INTO portfolio_item (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create portfolio item")
	}
	return create, nil
}

func (d *DB) ListPortfolioItems(ctx context.Context, find *store.FindPortfolioItem) ([]*store.PortfolioItem, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.Code != nil {
		where, args = append(where, "code = "+placeholder(len(args)+1)), append(args, *find.Code)
	}

	query := `SELECT id, user_id, code, name, amount, purchase_price, purchase_date, created_ts, updated_ts
		FROM portfolio_item WHERE ` + strings.Join(where, " AND ") + ` ORDER BY code`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list portfolio items")
	}
	defer rows.Close()

	list := make([]*store.PortfolioItem, 0)
	for rows.Next() {
		item := &store.PortfolioItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.Code, &item.Name, &item.Amount,
			&item.PurchasePrice, &item.PurchaseDate, &item.CreatedTs, &item.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan portfolio item")
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate portfolio items")
	}
	return list, nil
}

func (d *DB) UpdatePortfolioItem(ctx context.Context, update *store.UpdatePortfolioItem) (*store.PortfolioItem, error) {
	set, args := []string{}, []any{}

	if update.Amount != nil {
		set, args = append(set, "amount = "+placeholder(len(args)+1)), append(args, *update.Amount)
	}
	if update.PurchasePrice != nil {
		set, args = append(set, "purchase_price = "+placeholder(len(args)+1)), append(args, *update.PurchasePrice)
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *update.UpdatedTs)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE portfolio_item SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, user_id, code, name, amount, purchase_price, purchase_date, created_ts, updated_ts`
	item := &store.PortfolioItem{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&item.ID, &item.UserID, &item.Code, &item.Name, &item.Amount,
		&item.PurchasePrice, &item.PurchaseDate, &item.CreatedTs, &item.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update portfolio item")
	}
	return item, nil
}

func (d *DB) DeletePortfolioItem(ctx context.Context, delete *store.DeletePortfolioItem) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM portfolio_item WHERE id = `+placeholder(1), delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete portfolio item")
	}
	return nil
}
