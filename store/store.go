// Package store provides database access to all raw objects: users,
// portfolio positions, the tone watch list, news, daily prices and the
// refresh bookkeeping behind them.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/corrnet/corrnet/internal/profile"
	"github.com/corrnet/corrnet/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	cacheConfig cache.Config

	userCache  *cache.Cache // cache for users by id
	priceCache *cache.Cache // cache for per-code price series
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:      driver,
		profile:     profile,
		cacheConfig: cacheConfig,
		userCache:   cache.New(cacheConfig),
		priceCache:  cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.userCache.Close()
	s.priceCache.Close()
	return s.driver.Close()
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(ctx, userCacheKey(user.ID), user)
	return user, nil
}

// GetUser returns one user matching find, or nil when absent. Lookups by ID
// are served from cache when possible.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.ID != nil && find.Username == nil {
		if v, ok := s.userCache.Get(ctx, userCacheKey(*find.ID)); ok {
			if user, ok := v.(*User); ok {
				return user, nil
			}
		}
	}

	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	user := list[0]
	s.userCache.Set(ctx, userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(ctx, userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	if err := s.driver.DeleteUser(ctx, delete); err != nil {
		return err
	}
	s.userCache.Delete(ctx, userCacheKey(delete.ID))
	return nil
}

func (s *Store) CreatePortfolioItem(ctx context.Context, create *PortfolioItem) (*PortfolioItem, error) {
	return s.driver.CreatePortfolioItem(ctx, create)
}

func (s *Store) ListPortfolioItems(ctx context.Context, find *FindPortfolioItem) ([]*PortfolioItem, error) {
	return s.driver.ListPortfolioItems(ctx, find)
}

func (s *Store) UpdatePortfolioItem(ctx context.Context, update *UpdatePortfolioItem) (*PortfolioItem, error) {
	return s.driver.UpdatePortfolioItem(ctx, update)
}

func (s *Store) DeletePortfolioItem(ctx context.Context, delete *DeletePortfolioItem) error {
	return s.driver.DeletePortfolioItem(ctx, delete)
}

func (s *Store) CreateWatchItem(ctx context.Context, create *WatchItem) (*WatchItem, error) {
	return s.driver.CreateWatchItem(ctx, create)
}

func (s *Store) ListWatchItems(ctx context.Context, find *FindWatchItem) ([]*WatchItem, error) {
	return s.driver.ListWatchItems(ctx, find)
}

func (s *Store) DeleteWatchItem(ctx context.Context, delete *DeleteWatchItem) error {
	return s.driver.DeleteWatchItem(ctx, delete)
}

func (s *Store) CreateNewsItem(ctx context.Context, create *NewsItem) (*NewsItem, error) {
	return s.driver.CreateNewsItem(ctx, create)
}

func (s *Store) ListNewsItems(ctx context.Context, find *FindNewsItem) ([]*NewsItem, error) {
	return s.driver.ListNewsItems(ctx, find)
}

func (s *Store) UpdateNewsItem(ctx context.Context, update *UpdateNewsItem) (*NewsItem, error) {
	return s.driver.UpdateNewsItem(ctx, update)
}

func (s *Store) DeleteNewsItem(ctx context.Context, delete *DeleteNewsItem) error {
	return s.driver.DeleteNewsItem(ctx, delete)
}

func (s *Store) UpsertPricePoint(ctx context.Context, upsert *PricePoint) (*PricePoint, error) {
	point, err := s.driver.UpsertPricePoint(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.priceCache.Delete(ctx, priceCacheKey(upsert.Code))
	return point, nil
}

// ListPricePoints returns daily closes, newest first. Whole-series reads per
// code are cached; limited reads go straight to the driver.
func (s *Store) ListPricePoints(ctx context.Context, find *FindPricePoint) ([]*PricePoint, error) {
	cacheable := find.Code != nil && find.Limit == nil
	if cacheable {
		if v, ok := s.priceCache.Get(ctx, priceCacheKey(*find.Code)); ok {
			if series, ok := v.([]*PricePoint); ok {
				return series, nil
			}
		}
	}

	list, err := s.driver.ListPricePoints(ctx, find)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.priceCache.Set(ctx, priceCacheKey(*find.Code), list)
	}
	return list, nil
}

func (s *Store) UpsertDataFreshness(ctx context.Context, upsert *DataFreshness) (*DataFreshness, error) {
	return s.driver.UpsertDataFreshness(ctx, upsert)
}

func (s *Store) ListDataFreshness(ctx context.Context, find *FindDataFreshness) ([]*DataFreshness, error) {
	return s.driver.ListDataFreshness(ctx, find)
}

// GetDataFreshness returns the freshness record for one kind, or nil.
func (s *Store) GetDataFreshness(ctx context.Context, kind string) (*DataFreshness, error) {
	list, err := s.driver.ListDataFreshness(ctx, &FindDataFreshness{Kind: &kind})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func userCacheKey(id int32) string {
	return fmt.Sprintf("user:%d", id)
}

func priceCacheKey(code string) string {
	return "prices:" + code
}
