package classifier

import (
	"strings"

	"github.com/dgallion1/findoc/internal/document"
)

// Settings are the tunable parts of the classifier, loadable from the
// tuning file. Keywords is keyed by table type name; missing types keep
// their defaults.
type Settings struct {
	ContextLines int                 `yaml:"context_lines"`
	Keywords     map[string][]string `yaml:"keywords"`
}

func DefaultSettings() Settings {
	return Settings{
		ContextLines: 10,
		Keywords: map[string][]string{
			string(document.TableSecurities): {
				"isin", "cusip", "security", "securities", "holding",
				"position", "quantity", "price", "value", "weight",
			},
			string(document.TableTransactions): {
				"transaction", "buy", "sell", "purchase", "sale",
				"trade", "settlement", "fee", "deposit", "withdrawal",
			},
			string(document.TablePerformance): {
				"performance", "return", "yield", "gain", "loss",
				"profit", "ytd", "annualized", "benchmark", "change",
			},
			string(document.TableAllocation): {
				"allocation", "asset class", "sector", "region", "weight",
				"percentage", "exposure", "distribution", "breakdown", "country",
			},
			string(document.TableSummary): {
				"summary", "total", "balance", "net", "assets",
				"liabilities", "equity", "portfolio value", "overview", "subtotal",
			},
		},
	}
}

type typeKeywords struct {
	tableType document.TableType
	words     []string
}

// keywordTable resolves the settings into evaluation order, filling gaps
// from the defaults.
func (s Settings) keywordTable() []typeKeywords {
	defaults := DefaultSettings().Keywords
	out := make([]typeKeywords, 0, len(document.TableTypes()))
	for _, tt := range document.TableTypes() {
		words, ok := s.Keywords[string(tt)]
		if !ok || len(words) == 0 {
			words = defaults[string(tt)]
		}
		lowered := make([]string, 0, len(words))
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				lowered = append(lowered, w)
			}
		}
		out = append(out, typeKeywords{tableType: tt, words: lowered})
	}
	return out
}

// scoreType counts keyword hits per type and returns the best-scoring type.
// Ties keep the earlier type; zero hits everywhere is unknown.
func scoreType(table []typeKeywords, text string) document.TableType {
	lower := strings.ToLower(text)
	best := document.TableUnknown
	bestScore := 0
	for _, tk := range table {
		score := 0
		for _, w := range tk.words {
			if strings.Contains(lower, w) {
				score++
			}
		}
		if score > bestScore {
			best = tk.tableType
			bestScore = score
		}
	}
	return best
}
