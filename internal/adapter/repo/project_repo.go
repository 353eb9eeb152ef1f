package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"charityhub/internal/domain"
)

// ProjectRepositoryPG implements domain.ProjectRepository backed by PostgreSQL.
type ProjectRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepositoryPG.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepositoryPG {
	return &ProjectRepositoryPG{pool: pool}
}

const projectColumns = `id, name, description, owner_id, members, goal_amount, current_amount, lat, lng, verified, report_url, status, created_at, updated_at`

// CreateProject inserts a new project row.
func (r *ProjectRepositoryPG) CreateProject(ctx context.Context, project *domain.Project) error {
	var lat, lng *float64
	if project.Location != nil {
		lat, lng = &project.Location.Lat, &project.Location.Lng
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO projects (id, name, description, owner_id, members, goal_amount, lat, lng, verified, report_url, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`, project.ID, project.Name, project.Description, project.OwnerID, project.Members,
		project.GoalAmount, lat, lng, project.Verified, project.ReportURL, project.Status)
	return err
}

// GetProjectByID fetches a project by id.
func (r *ProjectRepositoryPG) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

// UpdateProject persists mutable project fields. The current amount is
// owned by the donation ledger and deliberately absent here.
func (r *ProjectRepositoryPG) UpdateProject(ctx context.Context, project *domain.Project) error {
	var lat, lng *float64
	if project.Location != nil {
		lat, lng = &project.Location.Lat, &project.Location.Lng
	}
	tag, err := r.pool.Exec(ctx, `
UPDATE projects
SET name = $2, description = $3, members = $4, goal_amount = $5, lat = $6, lng = $7,
    verified = $8, report_url = $9, status = $10, updated_at = NOW()
WHERE id = $1;
`, project.ID, project.Name, project.Description, project.Members, project.GoalAmount,
		lat, lng, project.Verified, project.ReportURL, project.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteProject removes a project and its dependent rows.
func (r *ProjectRepositoryPG) DeleteProject(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListProjectsByMember returns the projects the user belongs to.
func (r *ProjectRepositoryPG) ListProjectsByMember(ctx context.Context, userID string) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+projectColumns+`
FROM projects
WHERE $1 = ANY(members)
ORDER BY created_at;
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// ListAllProjects returns every project ordered by creation time.
func (r *ProjectRepositoryPG) ListAllProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func collectProjects(rows pgx.Rows) ([]domain.Project, error) {
	var items []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var lat, lng *float64
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Members, &p.GoalAmount,
		&p.CurrentAmount, &lat, &lng, &p.Verified, &p.ReportURL, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if lat != nil && lng != nil {
		p.Location = &domain.GeoPoint{Lat: *lat, Lng: *lng}
	}
	return &p, nil
}
