package domain

import "time"

// AuditLog is a best-effort trail of posting activity, written after commit.
type AuditLog struct {
	ID           string
	Action       string
	ResourceType string
	ResourceID   string
	Detail       string
	Status       string
	CreatedAt    time.Time
}

// AuditAction represents auditable engine actions.
type AuditAction string

const (
	AuditActionSaleRecord       AuditAction = "sale.record"
	AuditActionPurchaseRecord   AuditAction = "purchase.record"
	AuditActionExpenseRecord    AuditAction = "expense.record"
	AuditActionPaymentRecord    AuditAction = "payment.record"
	AuditActionEntryReverse     AuditAction = "entry.reverse"
	AuditActionProductionRecord AuditAction = "production.record"
)

// AuditStatus represents the outcome of an audited action.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)
