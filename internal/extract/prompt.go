package extract

import (
	"fmt"
	"strings"
)

const EntityPrompt = `Extract financial entities from the following document section. Return a JSON array. Each object must have these fields:

- "type": one of "company", "security", "financialMetric", "person", "date", "currency"
- "name": the entity name as written in the document (string or null)
- "isin": 12-character ISIN for securities (string or null)
- "ticker": exchange ticker symbol (string or null)
- "value": the value of a financial metric, as written (string or null)
- "price": unit price of a security, as written (string or null)
- "quantity": number of units held, as written (string or null)
- "marketValue": market value of a position, as written (string or null)

Rules:
- Only extract entities that appear in the text. Do not guess identifiers.
- Keep numbers exactly as written, including currency symbols and separators.
- One object per distinct entity. A security listed with its issuer is a single "security" entity.
- Financial metrics are named totals such as "Total assets" or "Net worth".
- Return an empty array [] if the section has no entities.

Respond with ONLY the JSON array, no other text.`

// BuildChunkPrompt creates the full prompt for one chunk, including the
// document title and section breadcrumb.
func BuildChunkPrompt(docTitle string, breadcrumb []string, chunkText string) string {
	var sb strings.Builder
	sb.WriteString(EntityPrompt)
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("Document: %q\n", docTitle))
	if len(breadcrumb) > 0 {
		sb.WriteString("Section: ")
		sb.WriteString(strings.Join(breadcrumb, " > "))
		sb.WriteString("\n")
	}
	sb.WriteString("---\n")
	sb.WriteString(chunkText)
	return sb.String()
}
