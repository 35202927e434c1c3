package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that a store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// PortfolioItem model related methods.
	CreatePortfolioItem(ctx context.Context, create *PortfolioItem) (*PortfolioItem, error)
	ListPortfolioItems(ctx context.Context, find *FindPortfolioItem) ([]*PortfolioItem, error)
	UpdatePortfolioItem(ctx context.Context, update *UpdatePortfolioItem) (*PortfolioItem, error)
	DeletePortfolioItem(ctx context.Context, delete *DeletePortfolioItem) error

	// WatchItem model related methods.
	CreateWatchItem(ctx context.Context, create *WatchItem) (*WatchItem, error)
	ListWatchItems(ctx context.Context, find *FindWatchItem) ([]*WatchItem, error)
	DeleteWatchItem(ctx context.Context, delete *DeleteWatchItem) error

	// NewsItem model related methods.
	CreateNewsItem(ctx context.Context, create *NewsItem) (*NewsItem, error)
	ListNewsItems(ctx context.Context, find *FindNewsItem) ([]*NewsItem, error)
	UpdateNewsItem(ctx context.Context, update *UpdateNewsItem) (*NewsItem, error)
	DeleteNewsItem(ctx context.Context, delete *DeleteNewsItem) error

	// PricePoint model related methods.
	UpsertPricePoint(ctx context.Context, upsert *PricePoint) (*PricePoint, error)
	ListPricePoints(ctx context.Context, find *FindPricePoint) ([]*PricePoint, error)

	// DataFreshness model related methods.
	UpsertDataFreshness(ctx context.Context, upsert *DataFreshness) (*DataFreshness, error)
	ListDataFreshness(ctx context.Context, find *FindDataFreshness) ([]*DataFreshness, error)
}
