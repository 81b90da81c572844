package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/findoc/internal/document"
)

const (
	maxNameLen   = 200
	maxTickerLen = 12
	maxNumberLen = 40
)

var injectionPattern = regexp.MustCompile(
	`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
		`act\s+as\s+|pretend\s+|forget\s+(everything|all)|override|` +
		`new\s+instructions)`,
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]*$`)

// ValidateEntity normalizes e in place and reports whether it is usable.
// Invalid optional fields (a bad ISIN check digit, an odd ticker, an
// oversized number) are cleared; the entity is rejected when its type is
// unknown, nothing identifies it, or its name looks like an instruction.
func ValidateEntity(e *document.Entity) bool {
	if e == nil || !e.Type.Valid() {
		return false
	}

	e.Name = strings.Join(strings.Fields(e.Name), " ")
	if len(e.Name) > maxNameLen || injectionPattern.MatchString(e.Name) {
		return false
	}

	e.ISIN = strings.ToUpper(strings.TrimSpace(e.ISIN))
	if e.ISIN != "" && !document.ValidISIN(e.ISIN) {
		e.ISIN = ""
	}

	e.Ticker = strings.ToUpper(strings.TrimSpace(e.Ticker))
	if len(e.Ticker) > maxTickerLen || (e.Ticker != "" && !tickerPattern.MatchString(e.Ticker)) {
		e.Ticker = ""
	}

	for _, f := range []*string{&e.Value, &e.Price, &e.Quantity, &e.MarketValue} {
		*f = strings.TrimSpace(*f)
		if len(*f) > maxNumberLen || injectionPattern.MatchString(*f) {
			*f = ""
		}
	}

	return e.Name != "" || e.ISIN != "" || e.Ticker != ""
}
