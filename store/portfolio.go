package store

// PortfolioItem is one holding position. Code is the exchange listing code
// (e.g. "005930"); PurchasePrice is the volume-weighted average across buys.
type PortfolioItem struct {
	ID            int32
	UserID        int32
	Code          string
	Name          string
	Amount        float64
	PurchasePrice float64
	PurchaseDate  string
	CreatedTs     int64
	UpdatedTs     int64
}

type FindPortfolioItem struct {
	ID     *int32
	UserID *int32
	Code   *string
}

type UpdatePortfolioItem struct {
	ID            int32
	Amount        *float64
	PurchasePrice *float64
	UpdatedTs     *int64
}

type DeletePortfolioItem struct {
	ID int32
}
