package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineProvider() *Provider {
	return NewProvider(&Config{})
}

func TestProvider_OfflineChat(t *testing.T) {
	p := offlineProvider()
	require.False(t, p.Online())

	reply, err := p.Chat(context.Background(), []Message{
		{Role: "user", Content: "삼성전자 전망 알려줘"},
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "삼성전자 전망 알려줘")
}

func TestProvider_OfflineChatNoUserMessage(t *testing.T) {
	p := offlineProvider()
	reply, err := p.Chat(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}

func TestGuruFor(t *testing.T) {
	assert.Equal(t, "워렌 버핏", GuruFor("Warren Buffett").KoreanName)
	assert.Equal(t, "마크 미너비니", GuruFor("Mark Minervini").KoreanName)
	assert.Equal(t, "찰리 멍거", GuruFor("Charlie Munger").KoreanName)

	// Unknown names fall back to the default persona.
	assert.Equal(t, "Warren Buffett", GuruFor("Cathie Wood").Name)
}

func TestGurus_Order(t *testing.T) {
	list := Gurus()
	require.Len(t, list, 3)
	assert.Equal(t, "Warren Buffett", list[0].Name)
	assert.Equal(t, "Mark Minervini", list[1].Name)
	assert.Equal(t, "Charlie Munger", list[2].Name)
}

func TestProvider_OfflineGuruAnalysis(t *testing.T) {
	p := offlineProvider()

	out, err := p.GuruAnalysis(context.Background(), "Charlie Munger",
		"005930 삼성전자 10주 @70000", "SMA50 71000", "삼성전자 반도체 수주 급등")
	require.NoError(t, err)

	assert.Contains(t, out, "찰리 멍거")
	assert.Contains(t, out, "005930")
	assert.Contains(t, out, string(SentimentPositive))
}

func TestProvider_OfflineToneBriefing(t *testing.T) {
	p := offlineProvider()

	out, err := p.ToneBriefing(context.Background(), "SK하이닉스", "부정", "실적 부진 뉴스 급증")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "SK하이닉스"))
	assert.True(t, strings.Contains(out, "부정"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Sentiment
	}{
		{"삼성전자 대규모 수주로 주가 급등", SentimentPositive},
		{"SK하이닉스 적자 전환, 주가 급락", SentimentNegative},
		{"네이버 신임 이사 선임", SentimentNeutral},
		{"record growth beats estimates", SentimentPositive},
		{"recall triggers lawsuit", SentimentNegative},
		{"호재와 악재가 공존", SentimentNeutral},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Classify(tt.text), "text %q", tt.text)
	}
}

func TestSentiment_Score(t *testing.T) {
	assert.Equal(t, 1.0, SentimentPositive.Score())
	assert.Equal(t, -1.0, SentimentNegative.Score())
	assert.Equal(t, 0.0, SentimentNeutral.Score())
	assert.Equal(t, 0.0, Sentiment("Weird").Score())
}
