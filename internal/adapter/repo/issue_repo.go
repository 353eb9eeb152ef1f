package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"charityhub/internal/domain"
)

// IssueRepositoryPG implements domain.IssueRepository backed by PostgreSQL.
type IssueRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewIssueRepository creates a new IssueRepositoryPG.
func NewIssueRepository(pool *pgxpool.Pool) *IssueRepositoryPG {
	return &IssueRepositoryPG{pool: pool}
}

const issueColumns = `id, project_id, title, description, category, priority, status, reporter_id, assignee_id, created_at, updated_at`

// CreateIssue inserts a new issue row.
func (r *IssueRepositoryPG) CreateIssue(ctx context.Context, issue *domain.Issue) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO issues (id, project_id, title, description, category, priority, status, reporter_id, assignee_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`, issue.ID, issue.ProjectID, issue.Title, issue.Description, issue.Category,
		issue.Priority, issue.Status, issue.ReporterID, issue.AssigneeID)
	return err
}

// GetIssueByID fetches an issue by id.
func (r *IssueRepositoryPG) GetIssueByID(ctx context.Context, id string) (*domain.Issue, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = $1`, id)
	return scanIssue(row)
}

// UpdateIssue persists descriptive fields. Status and assignee move
// only through AssignIssue and CloseIssue.
func (r *IssueRepositoryPG) UpdateIssue(ctx context.Context, issue *domain.Issue) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE issues
SET title = $2, description = $3, category = $4, priority = $5, updated_at = NOW()
WHERE id = $1;
`, issue.ID, issue.Title, issue.Description, issue.Category, issue.Priority)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteIssue removes an issue.
func (r *IssueRepositoryPG) DeleteIssue(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListIssuesByProject returns a project's issues ordered by creation time.
func (r *IssueRepositoryPG) ListIssuesByProject(ctx context.Context, projectID string) ([]domain.Issue, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+issueColumns+`
FROM issues
WHERE project_id = $1
ORDER BY created_at;
`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Issue
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// AssignIssue sets the assignee and moves the issue to assigned unless
// it is already closed. The guard lives in the WHERE clause so two
// concurrent transitions serialize on the row.
func (r *IssueRepositoryPG) AssignIssue(ctx context.Context, id, volunteerID string) (*domain.Issue, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE issues
SET assignee_id = $2, status = 'assigned', updated_at = NOW()
WHERE id = $1 AND status <> 'closed'
RETURNING `+issueColumns+`;
`, id, volunteerID)
	issue, err := scanIssue(row)
	if err == nil {
		return issue, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	// No row matched: the issue is either absent or closed.
	if _, getErr := r.GetIssueByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("%w: cannot assign a closed issue", domain.ErrInvalidArgument)
}

// CloseIssue performs the compare-and-set transition to closed. The
// boolean reports whether this call closed the issue; retried closes
// find no open row and report false.
func (r *IssueRepositoryPG) CloseIssue(ctx context.Context, id string) (*domain.Issue, bool, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE issues
SET status = 'closed', updated_at = NOW()
WHERE id = $1 AND status <> 'closed'
RETURNING `+issueColumns+`;
`, id)
	issue, err := scanIssue(row)
	if err == nil {
		return issue, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}
	issue, err = r.GetIssueByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return issue, false, nil
}

// IssueStatsByProject aggregates issue counts for a project.
func (r *IssueRepositoryPG) IssueStatsByProject(ctx context.Context, projectID string) (domain.IssueStats, error) {
	row := r.pool.QueryRow(ctx, `
SELECT
  COUNT(*) FILTER (WHERE status = 'open'),
  COUNT(*) FILTER (WHERE status = 'assigned'),
  COUNT(*) FILTER (WHERE status = 'closed')
FROM issues
WHERE project_id = $1;
`, projectID)
	stats := domain.IssueStats{ProjectID: projectID}
	if err := row.Scan(&stats.Open, &stats.Assigned, &stats.Closed); err != nil {
		return domain.IssueStats{}, err
	}
	return stats, nil
}

func scanIssue(row pgx.Row) (*domain.Issue, error) {
	var i domain.Issue
	if err := row.Scan(&i.ID, &i.ProjectID, &i.Title, &i.Description, &i.Category, &i.Priority,
		&i.Status, &i.ReporterID, &i.AssigneeID, &i.CreatedAt, &i.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}
