package market

import "sort"

// ChainCompany is one participant in an industry chain.
type ChainCompany struct {
	Name string
	Role string
}

// ChainRelation is a fixed-strength relationship inside a chain. Strength
// competes with the price correlation for the same pair; the larger wins.
type ChainRelation struct {
	CodeA    string
	CodeB    string
	Strength float64
	Kind     string
}

// IndustryChain groups companies with known supply or competition links.
type IndustryChain struct {
	Name          string
	Description   string
	Companies     map[string]ChainCompany
	Relationships []ChainRelation
}

var industryChains = []IndustryChain{
	{
		Name:        "반도체",
		Description: "반도체 산업 체인",
		Companies: map[string]ChainCompany{
			"005930": {Name: "삼성전자", Role: "IDM (설계+제조)"},
			"000660": {Name: "SK하이닉스", Role: "메모리 반도체"},
			"042700": {Name: "한미반도체", Role: "장비"},
			"036830": {Name: "솔브레인홀딩스", Role: "소재"},
		},
		Relationships: []ChainRelation{
			{"005930", "000660", 0.8, "경쟁사/동종업"},
			{"005930", "042700", 0.5, "고객-장비사"},
			{"000660", "042700", 0.5, "고객-장비사"},
		},
	},
	{
		Name:        "ESS",
		Description: "ESS/에너지저장 산업 체인",
	},
	{
		Name:        "원전",
		Description: "원자력 산업 체인",
	},
}

// IndustryChains returns the known chains.
func IndustryChains() []IndustryChain {
	return industryChains
}

// chainNameFor returns the chain a code belongs to, or "".
func chainNameFor(code string) (string, string) {
	for _, chain := range industryChains {
		if company, ok := chain.Companies[code]; ok {
			return chain.Name, company.Role
		}
	}
	return "", ""
}

// defaultStockNames maps the bundled listing codes to display names. Codes
// outside this set fall back to the industry chain tables, then to the code
// itself.
var defaultStockNames = map[string]string{
	"005930": "삼성전자",
	"000660": "SK하이닉스",
	"035420": "NAVER",
	"035720": "카카오",
	"005380": "현대차",
	"000270": "기아",
	"051910": "LG화학",
	"006400": "삼성SDI",
	"373220": "LG에너지솔루션",
	"207940": "삼성바이오로직스",
}

// DefaultPortfolioCodes is the snapshot fallback for users without holdings.
var DefaultPortfolioCodes = []string{"005930", "000660", "035420"}

// Listing is one known security with its chain membership, if any.
type Listing struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Chain string `json:"chain,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Listings returns every known security, sorted by code: the bundled default
// names plus any chain members outside that set.
func Listings() []Listing {
	seen := make(map[string]bool, len(defaultStockNames))
	listings := make([]Listing, 0, len(defaultStockNames))
	for code, name := range defaultStockNames {
		chain, role := chainNameFor(code)
		listings = append(listings, Listing{Code: code, Name: name, Chain: chain, Role: role})
		seen[code] = true
	}
	for _, chain := range industryChains {
		for code, company := range chain.Companies {
			if seen[code] {
				continue
			}
			listings = append(listings, Listing{Code: code, Name: company.Name, Chain: chain.Name, Role: company.Role})
			seen[code] = true
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Code < listings[j].Code })
	return listings
}

// StockName resolves the display name for a code.
func StockName(code string) string {
	if name, ok := defaultStockNames[code]; ok {
		return name
	}
	for _, chain := range industryChains {
		if company, ok := chain.Companies[code]; ok {
			return company.Name
		}
	}
	return code
}
