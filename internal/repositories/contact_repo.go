package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/telconnect/telconnect/internal/database"
	"github.com/telconnect/telconnect/internal/models"
)

// exportFetchLimit caps how many rows a CSV export will pull in one query.
const exportFetchLimit = 10000

// ContactRepository handles database operations for contact submissions.
type ContactRepository struct {
	db *database.DB
}

func NewContactRepository(db *database.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, name, email, phone, subject, message, plan_interest,
	ip_address, user_agent, status, created_at, updated_at`

func scanContactRow(scanner rowScanner) (*models.ContactSubmission, error) {
	var c models.ContactSubmission

	err := scanner.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message,
		&c.PlanInterest, &c.IPAddress, &c.UserAgent, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &c, nil
}

func scanContactRows(rows pgx.Rows) ([]*models.ContactSubmission, error) {
	defer rows.Close()

	contacts := make([]*models.ContactSubmission, 0)

	for rows.Next() {
		contact, err := scanContactRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return contacts, nil
}

// Create inserts a new submission with status "new".
func (r *ContactRepository) Create(ctx context.Context, contact *models.ContactSubmission) (*models.ContactSubmission, error) {
	contact.ID = uuid.New().String()

	query := fmt.Sprintf(`
		INSERT INTO contacts (id, name, email, phone, subject, message, plan_interest, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, contactColumns)

	created, err := scanContactRow(r.db.Pool.QueryRow(ctx, query,
		contact.ID, contact.Name, contact.Email, contact.Phone,
		contact.Subject, contact.Message, contact.PlanInterest,
		contact.IPAddress, contact.UserAgent,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetByID fetches one submission.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE id = $1 LIMIT 1`, contactColumns)
	return scanContactRow(r.db.Pool.QueryRow(ctx, query, id))
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func filterClause(filter models.ContactFilter) (string, []any) {
	var where []string
	var params []any

	if filter.Status != "" {
		params = append(params, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(params)))
	}

	if filter.Search != "" {
		params = append(params, "%"+escapeLike(filter.Search)+"%")
		n := len(params)
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR subject ILIKE $%d OR message ILIKE $%d)",
			n, n, n, n,
		))
	}

	if len(where) == 0 {
		return "", params
	}
	return "WHERE " + strings.Join(where, " AND "), params
}

// List returns one page of submissions matching the filter, newest first.
func (r *ContactRepository) List(ctx context.Context, filter models.ContactFilter, page, perPage int) (*models.ContactPage, error) {
	if page < 1 {
		page = 1
	}

	whereSQL, params := filterClause(filter)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM contacts %s`, whereSQL)
	if err := r.db.Pool.QueryRow(ctx, countQuery, params...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	totalPages := (total + perPage - 1) / perPage
	offset := (page - 1) * perPage

	listParams := append(params, perPage, offset)
	listQuery := fmt.Sprintf(`
		SELECT %s FROM contacts %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, contactColumns, whereSQL, len(params)+1, len(params)+2)

	rows, err := r.db.Pool.Query(ctx, listQuery, listParams...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}

	contacts, err := scanContactRows(rows)
	if err != nil {
		return nil, err
	}

	return &models.ContactPage{
		Contacts:   contacts,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// ListAll returns every submission matching the filter, newest first,
// capped at the export fetch limit. Used for CSV export only.
func (r *ContactRepository) ListAll(ctx context.Context, filter models.ContactFilter) ([]*models.ContactSubmission, error) {
	whereSQL, params := filterClause(filter)

	params = append(params, exportFetchLimit)
	query := fmt.Sprintf(`
		SELECT %s FROM contacts %s
		ORDER BY created_at DESC
		LIMIT $%d
	`, contactColumns, whereSQL, len(params))

	rows, err := r.db.Pool.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}

	return scanContactRows(rows)
}

// UpdateStatus sets the triage status of one submission. The status value
// is re-checked here so the enum constraint holds even if a caller skips
// the service layer.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if !models.ValidContactStatus(status) {
		return models.ErrBadRequest
	}

	query := `UPDATE contacts SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, status)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete hard-deletes one submission.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Stats aggregates submission counts for the dashboard header.
func (r *ContactRepository) Stats(ctx context.Context) (*models.ContactStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'new'),
			COUNT(*) FILTER (WHERE status = 'replied'),
			COUNT(*) FILTER (WHERE status = 'closed'),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', NOW()))
		FROM contacts
	`

	var stats models.ContactStats
	err := r.db.Pool.QueryRow(ctx, query).Scan(
		&stats.Total, &stats.New, &stats.Replied, &stats.Closed, &stats.Today,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
