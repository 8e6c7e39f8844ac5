package bot

import (
	"fmt"
	"strings"

	"github.com/AlvesGus/finbot/internal/model"
)

// summaryLimit caps how many stored transactions the summary shows.
const summaryLimit = 5

// renderTransactions formats the most recent transactions as a MarkdownV2
// message. All backend-supplied values go through the escaping pass; the
// emphasis markers in the header are the only intentional markup.
func renderTransactions(transactions []model.Transaction) string {
	if len(transactions) == 0 {
		return "📭 Nenhuma transação encontrada\\."
	}

	if len(transactions) > summaryLimit {
		transactions = transactions[:summaryLimit]
	}

	var b strings.Builder
	b.WriteString("📋 *Suas últimas transações:*\n\n")
	for _, t := range transactions {
		b.WriteString(fmt.Sprintf("💸 %s — R$%s\n", escapeMarkdownV2(t.Category), escapeMarkdownV2(fmt.Sprintf("%.2f", t.Amount))))
		b.WriteString(fmt.Sprintf("🏷️ %s\n", escapeMarkdownV2(t.Type)))
		b.WriteString(fmt.Sprintf("📍 %s\n", escapeMarkdownV2(t.Title)))
		if t.CreatedAt != "" {
			b.WriteString(fmt.Sprintf("📅 %s\n", escapeMarkdownV2(t.CreatedAt)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
