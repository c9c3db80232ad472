package domain

import "time"

// Party represents a counterparty (customer or supplier) holding one running
// balance. Rows are created by the catalog collaborator; the engine only reads
// them and posts entries against them. The balance is never stored on the row:
// it is always derived from the party's ledger entries.
type Party struct {
	CreatedAt time.Time
	Name      string
	Phone     string
	Address   string
	ID        int64
}
