package responder

import (
	"fmt"
	"strings"

	"github.com/dgallion1/findoc/internal/document"
)

var entityKeywords = []string{"entity", "entities", "companies", "securities"}

// entityFilters map question words to the entity type they ask about.
var entityFilters = []struct {
	words []string
	typ   document.EntityType
}{
	{[]string{"companies"}, document.EntityCompany},
	{[]string{"securities", "isins"}, document.EntitySecurity},
	{[]string{"metrics"}, document.EntityFinancialMetric},
}

func (r *Responder) answerEntity(q string, doc *document.Bundle) (string, bool) {
	if len(doc.Entities) == 0 {
		if containsAny(q, entityKeywords...) {
			return "I couldn't find any companies, securities or other entities in this document.", true
		}
		return "", false
	}

	if strings.Contains(q, "entities") && containsAny(q, "list", "all", "show", "what") {
		return r.listAllEntities(doc.Entities), true
	}
	if out, ok := r.listFilteredEntities(q, doc.Entities); ok {
		return out, true
	}
	if out, ok := r.describeMatches(q, doc); ok {
		return out, true
	}
	return "", false
}

func (r *Responder) listAllEntities(entities []document.Entity) string {
	groups := groupEntities(entities)
	var sb strings.Builder
	fmt.Fprintf(&sb, "I found %s in this document:", plural(len(entities), "entity", "entities"))
	for _, g := range groups {
		sb.WriteString("\n\n")
		writeGroup(&sb, g, r.limits.EntitiesPerType)
	}
	return sb.String()
}

func (r *Responder) listFilteredEntities(q string, entities []document.Entity) (string, bool) {
	var wanted []document.EntityType
	for _, f := range entityFilters {
		if containsAny(q, f.words...) {
			wanted = append(wanted, f.typ)
		}
	}
	if len(wanted) == 0 {
		return "", false
	}

	byType := make(map[document.EntityType]entityGroup)
	for _, g := range groupEntities(entities) {
		byType[g.typ] = g
	}

	var sb strings.Builder
	for _, t := range wanted {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		g, ok := byType[t]
		if !ok {
			fmt.Fprintf(&sb, "I couldn't find any %s in this document.", t.Label(2))
			continue
		}
		writeGroup(&sb, g, r.limits.EntitiesPerFilteredType)
	}
	return sb.String(), true
}

type entityGroup struct {
	typ      document.EntityType
	entities []document.Entity
}

// groupEntities groups by type in order of first appearance.
func groupEntities(entities []document.Entity) []entityGroup {
	var groups []entityGroup
	index := make(map[document.EntityType]int)
	for _, e := range entities {
		i, ok := index[e.Type]
		if !ok {
			i = len(groups)
			index[e.Type] = i
			groups = append(groups, entityGroup{typ: e.Type})
		}
		groups[i].entities = append(groups[i].entities, e)
	}
	return groups
}

func writeGroup(sb *strings.Builder, g entityGroup, limit int) {
	n := len(g.entities)
	fmt.Fprintf(sb, "%s (%d):", capitalize(g.typ.Label(n)), n)
	for i, e := range g.entities {
		if i == limit {
			fmt.Fprintf(sb, "\n- +%d more", n-limit)
			break
		}
		sb.WriteString("\n- ")
		sb.WriteString(entityLine(e))
	}
}

// entityLine renders an entity with its identifiers and value.
func entityLine(e document.Entity) string {
	name := e.DisplayName()
	var notes []string
	if e.ISIN != "" && e.ISIN != name {
		notes = append(notes, "ISIN: "+e.ISIN)
	}
	if e.Ticker != "" && e.Ticker != name {
		notes = append(notes, "ticker: "+e.Ticker)
	}
	if v := entityValue(e); v != "" {
		notes = append(notes, "value: "+v)
	}
	if len(notes) == 0 {
		return name
	}
	return name + " (" + strings.Join(notes, ", ") + ")"
}

func entityValue(e document.Entity) string {
	if e.Value != "" {
		return e.Value
	}
	return e.MarketValue
}

// describeMatches details every entity whose name, ISIN or ticker appears
// in q. mentioned carries the identifiers already described so that an
// entity listed twice upstream is reported once.
func (r *Responder) describeMatches(q string, doc *document.Bundle) (string, bool) {
	var parts []string
	var mentioned []string
	for _, e := range doc.Entities {
		if !mentionedIn(q, e) || seen(mentioned, e) {
			continue
		}
		var part string
		part, mentioned = r.describeEntity(e, doc, mentioned)
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n\n"), true
}

// mentionedIn matches the entity name as a substring of q, and the ISIN or
// ticker only as a whole word.
func mentionedIn(q string, e document.Entity) bool {
	if name := strings.ToLower(strings.TrimSpace(e.Name)); len(name) >= 2 && strings.Contains(q, name) {
		return true
	}
	for _, id := range []string{e.ISIN, e.Ticker} {
		if id = strings.ToLower(strings.TrimSpace(id)); id != "" && containsWord(q, id) {
			return true
		}
	}
	return false
}

func seen(mentioned []string, e document.Entity) bool {
	for _, id := range e.Identifiers() {
		for _, m := range mentioned {
			if strings.EqualFold(id, m) {
				return true
			}
		}
	}
	return false
}

// describeEntity renders one entity in detail and returns mentioned
// extended with its identifiers.
func (r *Responder) describeEntity(e document.Entity, doc *document.Bundle, mentioned []string) (string, []string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)", e.DisplayName(), e.Type.Label(1))

	fields := []struct{ label, value string }{
		{"ISIN", e.ISIN},
		{"Ticker", e.Ticker},
		{"Quantity", e.Quantity},
		{"Price", e.Price},
		{"Value", e.Value},
		{"Market value", e.MarketValue},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(&sb, "\n- %s: %s", f.label, f.value)
		}
	}

	ids := e.Identifiers()
	if refs := tableRefs(ids, doc.Tables); len(refs) > 0 {
		fmt.Fprintf(&sb, "\nMentioned in %s.", joinList(refs))
	}
	if line := r.contextLine(ids, doc.Text); line != "" {
		fmt.Fprintf(&sb, "\nAdditional information: %s", line)
	}
	return sb.String(), append(mentioned, ids...)
}

// tableRefs lists the tables whose rows contain any of ids.
func tableRefs(ids []string, tables []document.Table) []string {
	var refs []string
	for i, t := range tables {
		if tableContains(t, ids) {
			refs = append(refs, tableLabel(i, t))
		}
	}
	return refs
}

func tableContains(t document.Table, ids []string) bool {
	for _, row := range t.Rows {
		for _, cell := range row {
			lower := strings.ToLower(cell)
			for _, id := range ids {
				if strings.Contains(lower, strings.ToLower(id)) {
					return true
				}
			}
		}
	}
	return false
}

// contextLine returns the first short line of text that mentions any id.
func (r *Responder) contextLine(ids []string, text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) >= r.limits.MaxContextLine {
			continue
		}
		lower := strings.ToLower(line)
		for _, id := range ids {
			if strings.Contains(lower, strings.ToLower(id)) {
				return line
			}
		}
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
