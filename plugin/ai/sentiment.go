package ai

import "strings"

// Sentiment is a coarse tone label for a news item.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// Score maps a sentiment to a signed weight for tone aggregation.
func (s Sentiment) Score() float64 {
	switch s {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

var positiveTerms = []string{
	"상승", "급등", "호재", "수주", "최고", "신고가", "흑자", "개선", "성장",
	"surge", "record", "growth", "beat", "upgrade", "rally",
}

var negativeTerms = []string{
	"하락", "급락", "악재", "적자", "부진", "신저가", "리콜", "소송", "규제",
	"drop", "plunge", "loss", "recall", "downgrade", "lawsuit",
}

// Classify scores a headline or summary by keyword polarity. It is the
// offline stand-in for LLM sentiment analysis; ties resolve to Neutral.
func Classify(text string) Sentiment {
	lower := strings.ToLower(text)
	score := 0
	for _, term := range positiveTerms {
		score += strings.Count(lower, term)
	}
	for _, term := range negativeTerms {
		score -= strings.Count(lower, term)
	}
	switch {
	case score > 0:
		return SentimentPositive
	case score < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
