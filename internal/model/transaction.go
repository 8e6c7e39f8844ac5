package model

// Transaction is the record shape the storage backend exchanges. Field
// names follow the backend's wire contract.
type Transaction struct {
	Title      string  `json:"title"`
	Amount     float64 `json:"amount"`
	Type       string  `json:"type"`
	Category   string  `json:"category"`
	TelegramID string  `json:"telegram_id"`
	UserName   string  `json:"name_user"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

// TransactionFromMovement maps an extracted movement to the backend record
// for the given Telegram sender. The movement type lands in the backend
// category field and the extracted category in the type field; that is the
// backend's contract, not a mixup.
func TransactionFromMovement(m *Movement, telegramID, userName string) Transaction {
	m.NormalizeCategory()
	return Transaction{
		Title:      m.Place,
		Amount:     m.Amount,
		Type:       m.Category,
		Category:   m.MovementType,
		TelegramID: telegramID,
		UserName:   userName,
	}
}
