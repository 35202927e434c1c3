package store

// PricePoint is one daily close for a listing code. Date is YYYY-MM-DD.
type PricePoint struct {
	ID    int32
	Code  string
	Date  string
	Close float64
}

type FindPricePoint struct {
	Code *string
	// Limit caps the number of rows, newest dates first.
	Limit *int
}

// DataFreshness records when a data kind ("news", "prices") was last
// refreshed, unix seconds.
type DataFreshness struct {
	Kind        string
	RefreshedTs int64
}

type FindDataFreshness struct {
	Kind *string
}
