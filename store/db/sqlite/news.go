package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/corrnet/corrnet/store"
)

func (d *DB) CreateNewsItem(ctx context.Context, create *store.NewsItem) (*store.NewsItem, error) {
	fields := []string{"title", "date", "content", "sentiment", "url", "codes", "created_ts"}
	args := []any{create.Title, create.Date, create.Content, create.Sentiment, create.URL, create.Codes, create.CreatedTs}

	stmt := `INSERT INTO news_item (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create news item")
	}
	return create, nil
}

func (d *DB) ListNewsItems(ctx context.Context, find *store.FindNewsItem) ([]*store.NewsItem, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.Code != nil {
		where, args = append(where, "codes LIKE "+placeholder(len(args)+1)), append(args, "%"+*find.Code+"%")
	}
	if find.Sentiment != nil {
		where, args = append(where, "sentiment = "+placeholder(len(args)+1)), append(args, *find.Sentiment)
	}

	query := `SELECT id, title, date, content, sentiment, url, codes, created_ts
		FROM news_item WHERE ` + strings.Join(where, " AND ") + ` ORDER BY date DESC, id DESC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list news items")
	}
	defer rows.Close()

	list := make([]*store.NewsItem, 0)
	for rows.Next() {
		item := &store.NewsItem{}
		if err := rows.Scan(&item.ID, &item.Title, &item.Date, &item.Content,
			&item.Sentiment, &item.URL, &item.Codes, &item.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan news item")
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate news items")
	}
	return list, nil
}

func (d *DB) UpdateNewsItem(ctx context.Context, update *store.UpdateNewsItem) (*store.NewsItem, error) {
	set, args := []string{}, []any{}

	if update.Sentiment != nil {
		set, args = append(set, "sentiment = "+placeholder(len(args)+1)), append(args, *update.Sentiment)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE news_item SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, title, date, content, sentiment, url, codes, created_ts`
	item := &store.NewsItem{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&item.ID, &item.Title, &item.Date, &item.Content,
		&item.Sentiment, &item.URL, &item.Codes, &item.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update news item")
	}
	return item, nil
}

func (d *DB) DeleteNewsItem(ctx context.Context, delete *store.DeleteNewsItem) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM news_item WHERE id = `+placeholder(1), delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete news item")
	}
	return nil
}
