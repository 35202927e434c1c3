package store

// WatchItem is one entry on the tone watch list.
type WatchItem struct {
	ID        int32
	UserID    int32
	Code      string
	Name      string
	CreatedTs int64
}

type FindWatchItem struct {
	UserID *int32
	Code   *string
}

type DeleteWatchItem struct {
	ID int32
}
