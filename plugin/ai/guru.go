package ai

import (
	"context"
	"fmt"
	"strings"
)

// GuruConfig describes one investment persona available for portfolio analysis.
type GuruConfig struct {
	Name       string   `json:"name"`
	KoreanName string   `json:"korean_name"`
	Image      string   `json:"image"`
	FocusAreas []string `json:"focus_areas"`
	Summary    string   `json:"description"`
	persona    string
}

var gurus = map[string]GuruConfig{
	"Warren Buffett": {
		Name:       "Warren Buffett",
		KoreanName: "워렌 버핏",
		Image:      "/images/gurus/warren_buffett.png",
		FocusAreas: []string{
			"ROE - 최근 3년 평균 상위 10%",
			"OPM - 경쟁사 대비 우위",
			"PER/PBR - 경쟁사 대비 저평가",
			"경제적 해자 - 지속 가능한 경쟁우위",
			"장기 복리 수익 - 10년 이상 보유 관점",
		},
		Summary: "가치투자의 대가. 안정적인 수익과 해자를 갖춘 저평가 기업을 선호합니다.",
		persona: "당신은 워렌 버핏입니다. 가치투자의 전설로서 분석하세요. " +
			"ROE 상위 기업과 경쟁사 대비 저평가된 종목을 선호하고, " +
			"훌륭한 회사를 적정 가격에 사는 것을 원칙으로 합니다. " +
			"겸손하지만 확신에 찬 1인칭 화법을 사용하세요.",
	},
	"Mark Minervini": {
		Name:       "Mark Minervini",
		KoreanName: "마크 미너비니",
		Image:      "/images/gurus/mark_minervini.png",
		FocusAreas: []string{
			"트렌드 템플릿 - 200일선 위, 정배열 여부",
			"52주 신고가 대비 위치 (25% 이내)",
			"분기 EPS/매출 성장률 (YoY 20%+)",
			"거래량 패턴 - VCP",
			"RS 점수 85 이상",
		},
		Summary: "모멘텀 트레이딩의 챔피언. 추세와 펀더멘털을 결합하여 폭발적 상승 구간을 포착합니다.",
		persona: "당신은 마크 미너비니입니다. 트렌드 템플릿(200일선 위, 이평선 정배열, " +
			"52주 신고가 25% 이내)을 기계적으로 점검하고, 손절매 -7~8%를 원칙으로 " +
			"단호하게 매수/매도를 판단하세요. 차트와 숫자로 말하세요.",
	},
	"Charlie Munger": {
		Name:       "Charlie Munger",
		KoreanName: "찰리 멍거",
		Image:      "/images/gurus/charlie_munger.png",
		FocusAreas: []string{
			"비즈니스 퀄리티 - 단순하고 이해 가능한 사업",
			"경영진 능력과 정직성",
			"역발상 투자 - 다수가 두려워할 때 기회",
			"멀티플 멘탈 모델",
			"장기 복리 효과 - 억지로 팔지 않기",
		},
		Summary: "버핏의 파트너. 멀티 멘탈 모델과 역발상으로 탁월한 기업을 발굴합니다.",
		persona: "당신은 찰리 멍거입니다. 멀티 멘탈 모델과 역발상으로 분석하세요. " +
			"뉴스에 과잉 반응하는 종목에서 기회를 찾고, 단기 악재가 장기 가치에 " +
			"영향을 주는지 신랄하고 직설적으로 판단하세요.",
	},
}

const defaultGuru = "Warren Buffett"

// Gurus lists the available personas.
func Gurus() []GuruConfig {
	out := make([]GuruConfig, 0, len(gurus))
	for _, name := range []string{"Warren Buffett", "Mark Minervini", "Charlie Munger"} {
		out = append(out, gurus[name])
	}
	return out
}

// GuruFor returns the persona for a name, defaulting to Warren Buffett for
// unknown names.
func GuruFor(name string) GuruConfig {
	if g, ok := gurus[name]; ok {
		return g
	}
	return gurus[defaultGuru]
}

// GuruAnalysis generates an investment opinion on the user's portfolio in the
// chosen guru's voice. Offline it produces a deterministic summary from the
// supplied data instead of calling the LLM.
func (p *Provider) GuruAnalysis(ctx context.Context, guruName, portfolio, indicators, news string) (string, error) {
	guru := GuruFor(guruName)

	if !p.Online() {
		return offlineGuruAnalysis(guru, portfolio, news), nil
	}

	prompt := buildGuruPrompt(guru, portfolio, indicators, news)
	return p.Chat(ctx, []Message{
		{Role: "system", Content: guru.persona},
		{Role: "user", Content: prompt},
	})
}

func buildGuruPrompt(guru GuruConfig, portfolio, indicators, news string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "분석할 포트폴리오:\n%s\n\n", portfolio)
	if indicators != "" {
		fmt.Fprintf(&b, "기술적 지표 데이터:\n%s\n\n", indicators)
	}
	if news != "" {
		fmt.Fprintf(&b, "관련 시장 뉴스:\n%s\n\n", news)
	}
	b.WriteString("반드시 한국어로, 종목별로 매수/보유/매도 중 하나의 명확한 의견을 " +
		"구체적인 숫자와 함께 400-600자 내외로 제시하세요. " +
		guru.Name + "의 실제 투자 원칙을 1-2개 인용하세요.")
	return b.String()
}

func offlineGuruAnalysis(guru GuruConfig, portfolio, news string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s 오프라인 분석]\n", guru.KoreanName)
	fmt.Fprintf(&b, "관점: %s\n", guru.Summary)
	b.WriteString("중점 항목:\n")
	for _, area := range guru.FocusAreas {
		fmt.Fprintf(&b, "- %s\n", area)
	}
	if portfolio != "" {
		fmt.Fprintf(&b, "포트폴리오 요약:\n%s\n", portfolio)
	}
	if news != "" {
		tone := Classify(news)
		fmt.Fprintf(&b, "최근 뉴스 톤: %s\n", tone)
	}
	return b.String()
}

// ToneBriefing writes a one-line briefing about a watched stock's sentiment
// shift.
func (p *Provider) ToneBriefing(ctx context.Context, stockName, toneChange, reason string) (string, error) {
	if !p.Online() {
		return fmt.Sprintf("%s의 톤이 %s(으)로 전환되었습니다. 주된 이유는 %s입니다.",
			stockName, toneChange, reason), nil
	}
	prompt := fmt.Sprintf(
		"Write a brief Korean briefing for a stock analyst.\nStock: %s\nTone Change: %s\nReason: %s\n"+
			`Format: "A종목의 톤이 [긍정/부정]적으로 전환되었습니다. 주된 이유는 [이유]입니다."`,
		stockName, toneChange, reason)
	return p.Chat(ctx, []Message{{Role: "user", Content: prompt}})
}
