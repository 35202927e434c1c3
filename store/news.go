package store

import "strings"

// NewsItem is one ingested market news article. Codes holds the related
// listing codes, comma-joined for storage.
type NewsItem struct {
	ID        int32
	Title     string
	Date      string
	Content   string
	Sentiment string
	URL       string
	Codes     string
	CreatedTs int64
}

// CodeList splits the comma-joined related codes.
func (n *NewsItem) CodeList() []string {
	if n.Codes == "" {
		return nil
	}
	parts := strings.Split(n.Codes, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Mentions reports whether the article references the given code.
func (n *NewsItem) Mentions(code string) bool {
	for _, c := range n.CodeList() {
		if c == code {
			return true
		}
	}
	return false
}

type FindNewsItem struct {
	ID        *int32
	Code      *string
	Sentiment *string
	Limit     *int
}

type UpdateNewsItem struct {
	ID        int32
	Sentiment *string
}

type DeleteNewsItem struct {
	ID int32
}
