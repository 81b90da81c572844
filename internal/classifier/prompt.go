package classifier

import (
	"strings"

	"github.com/dgallion1/findoc/internal/llm"
)

// maxPromptTable bounds how much table text is sent to the model.
const maxPromptTable = 4000

const typePrompt = `Classify the following financial table into exactly one of these types:

- securities_table: holdings or positions, usually with ISIN, quantity, price or value
- transactions_table: buys, sells, trades, fees, deposits or withdrawals
- performance_table: returns, yields, gains and losses, benchmarks
- allocation_table: breakdown by asset class, sector, region or country
- summary_table: totals, balances, net assets and other account summaries

Respond with ONLY the type name, no other text.`

const columnsPrompt = `Identify the columns of the following financial table. Return a JSON array with one object per column, in order. Each object must have these fields:

- "name": the column header (string)
- "type": one of "text", "number", "date", "currency", "percentage"
- "index": zero-based position of the column in each row (integer)

Respond with ONLY the JSON array, no other text.`

func buildTypePrompt(tableText string) string {
	return buildPrompt(typePrompt, tableText)
}

func buildColumnsPrompt(tableText string) string {
	return buildPrompt(columnsPrompt, tableText)
}

func buildPrompt(instructions, tableText string) string {
	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n---\n")
	sb.WriteString(llm.Truncate(tableText, maxPromptTable))
	sb.WriteString("\n---")
	return sb.String()
}
