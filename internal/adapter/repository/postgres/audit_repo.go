package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriops/farmledger/internal/domain"
)

// AuditRepository implements audit log persistence. Audit writes are
// best-effort and happen outside the posting transaction.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts a new audit log entry.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	query := `
		INSERT INTO audit_logs (id, action, resource_type, resource_id, detail, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.Detail,
		log.Status,
		log.CreatedAt,
	)

	return err
}

// ListRecent retrieves the most recent audit entries for a resource type.
func (r *AuditRepository) ListRecent(ctx context.Context, resourceType string, limit int) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, action, resource_type, resource_id, detail, status, created_at
		FROM audit_logs
		WHERE resource_type = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, resourceType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		err := rows.Scan(
			&log.ID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.Detail,
			&log.Status,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
