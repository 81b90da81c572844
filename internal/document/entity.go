package document

import (
	"regexp"
	"strings"
)

// EntityType is the kind of a structured fact extracted from a document.
type EntityType string

const (
	EntityCompany         EntityType = "company"
	EntitySecurity        EntityType = "security"
	EntityFinancialMetric EntityType = "financialMetric"
	EntityPerson          EntityType = "person"
	EntityDate            EntityType = "date"
	EntityCurrency        EntityType = "currency"
)

var entityLabels = map[EntityType][2]string{
	EntityCompany:         {"company", "companies"},
	EntitySecurity:        {"security", "securities"},
	EntityFinancialMetric: {"financial metric", "financial metrics"},
	EntityPerson:          {"person", "people"},
	EntityDate:            {"date", "dates"},
	EntityCurrency:        {"currency", "currencies"},
}

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	_, ok := entityLabels[t]
	return ok
}

// Label returns the singular or plural display name for n entities.
func (t EntityType) Label(n int) string {
	l, ok := entityLabels[t]
	if !ok {
		if n == 1 {
			return string(t)
		}
		return string(t) + "s"
	}
	if n == 1 {
		return l[0]
	}
	return l[1]
}

// Entity is an upstream-extracted fact about a company, security or metric.
// Numeric fields are kept as the strings found in the document.
type Entity struct {
	Type        EntityType `json:"type"`
	Name        string     `json:"name,omitempty"`
	ISIN        string     `json:"isin,omitempty"`
	Ticker      string     `json:"ticker,omitempty"`
	Value       string     `json:"value,omitempty"`
	Price       string     `json:"price,omitempty"`
	Quantity    string     `json:"quantity,omitempty"`
	MarketValue string     `json:"marketValue,omitempty"`
}

// DisplayName returns the best human-readable identifier of the entity.
func (e Entity) DisplayName() string {
	switch {
	case e.Name != "":
		return e.Name
	case e.ISIN != "":
		return e.ISIN
	case e.Ticker != "":
		return e.Ticker
	}
	return "Unnamed " + e.Type.Label(1)
}

// Identifiers returns the non-empty name, ISIN and ticker, in that order.
func (e Entity) Identifiers() []string {
	var ids []string
	for _, s := range []string{e.Name, e.ISIN, e.Ticker} {
		if s = strings.TrimSpace(s); s != "" {
			ids = append(ids, s)
		}
	}
	return ids
}

var isinShape = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// ValidISIN checks the ISO 6166 shape and the Luhn check digit.
func ValidISIN(s string) bool {
	if !isinShape.MatchString(s) {
		return false
	}
	var digits []int
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			n := int(r-'A') + 10
			digits = append(digits, n/10, n%10)
		} else {
			digits = append(digits, int(r-'0'))
		}
	}
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if (len(digits)-1-i)%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}
