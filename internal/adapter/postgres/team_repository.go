package postgres

import (
	"context"
	"fmt"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// teamColumns must match the Scan order in scanTeam. Members are aggregated
// from team_members so one query returns the whole team; it expects the
// teamMembersJoin alias u so deleted users drop out.
const teamColumns = `t.id, t.condominium_id, t.name, t.description,
	COALESCE(array_agg(m.user_id ORDER BY m.user_id) FILTER (WHERE u.id IS NOT NULL), '{}'),
	t.created_at, t.updated_at`

const teamMembersJoin = `
		LEFT JOIN team_members m ON m.team_id = t.id
		LEFT JOIN users u ON u.id = m.user_id AND u.deleted_at IS NULL`

type TeamRepo struct {
	pool *pgxpool.Pool
}

func NewTeamRepo(pool *pgxpool.Pool) *TeamRepo {
	return &TeamRepo{pool: pool}
}

func scanTeam(row rowScanner) (*domain.Team, error) {
	var t domain.Team
	err := row.Scan(&t.ID, &t.CondominiumID, &t.Name, &t.Description, &t.MemberIDs, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepo) Create(ctx context.Context, t *domain.Team) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO teams (condominium_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		t.CondominiumID, t.Name, t.Description,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapError(err, "create team")
	}

	if err := replaceMembers(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// replaceMembers rewrites the member set. Members must belong to the team's
// condominium; anyone else makes the whole write fail with ErrNotFound.
func replaceMembers(ctx context.Context, tx pgx.Tx, t *domain.Team) error {
	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, t.ID); err != nil {
		return mapError(err, "clear team members")
	}
	if len(t.MemberIDs) == 0 {
		t.MemberIDs = []uuid.UUID{}
		return nil
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id)
		SELECT $1, u.id FROM users u
		WHERE u.condominium_id = $2 AND u.id = ANY($3) AND u.deleted_at IS NULL
		ON CONFLICT DO NOTHING`, t.ID, t.CondominiumID, t.MemberIDs)
	if err != nil {
		return mapError(err, "add team members")
	}
	if int(tag.RowsAffected()) != len(uniqueIDs(t.MemberIDs)) {
		return fmt.Errorf("%w: team member outside condominium", domain.ErrNotFound)
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (r *TeamRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Team, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+teamColumns+` FROM teams t`+teamMembersJoin+`
		WHERE t.condominium_id = $1 AND t.id = $2 AND t.deleted_at IS NULL
		GROUP BY t.id`, condominiumID, id)
	t, err := scanTeam(row)
	if err != nil {
		return nil, mapError(err, "get team")
	}
	return t, nil
}

func (r *TeamRepo) List(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.Team, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+teamColumns+` FROM teams t`+teamMembersJoin+`
		WHERE t.condominium_id = $1 AND t.deleted_at IS NULL
		GROUP BY t.id
		ORDER BY t.name
		LIMIT $2 OFFSET $3`, condominiumID, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list teams")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Team, error) {
		return scanTeam(row)
	})
	if err != nil {
		return nil, mapError(err, "list teams")
	}
	return out, nil
}

func (r *TeamRepo) Update(ctx context.Context, t *domain.Team) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		UPDATE teams SET name = $3, description = $4, updated_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		t.CondominiumID, t.ID, t.Name, t.Description,
	).Scan(&t.UpdatedAt)
	if err != nil {
		return mapError(err, "update team")
	}

	if err := replaceMembers(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete soft-deletes the team and detaches the activity lists and processes
// that pointed at it.
func (r *TeamRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE teams SET deleted_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	if err != nil {
		return mapError(err, "delete team")
	}
	if err := expectOne(tag); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE activity_lists SET team_id = NULL, updated_at = now()
		WHERE condominium_id = $1 AND team_id = $2`, condominiumID, id); err != nil {
		return mapError(err, "detach team activity lists")
	}
	if _, err := tx.Exec(ctx, `
		UPDATE processes SET team_id = NULL, updated_at = now()
		WHERE condominium_id = $1 AND team_id = $2`, condominiumID, id); err != nil {
		return mapError(err, "detach team processes")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// processColumns must match the Scan order in scanProcess.
const processColumns = `id, condominium_id, team_id, name, description, steps, status, created_at, updated_at`

type ProcessRepo struct {
	pool *pgxpool.Pool
}

func NewProcessRepo(pool *pgxpool.Pool) *ProcessRepo {
	return &ProcessRepo{pool: pool}
}

func scanProcess(row rowScanner) (*domain.Process, error) {
	var p domain.Process
	err := row.Scan(&p.ID, &p.CondominiumID, &p.TeamID, &p.Name, &p.Description, &p.Steps, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProcessRepo) Create(ctx context.Context, p *domain.Process) error {
	if p.Steps == nil {
		p.Steps = []string{}
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO processes (condominium_id, team_id, name, description, steps, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		p.CondominiumID, p.TeamID, p.Name, p.Description, p.Steps, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapError(err, "create process")
	}
	return nil
}

func (r *ProcessRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Process, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+processColumns+` FROM processes
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	p, err := scanProcess(row)
	if err != nil {
		return nil, mapError(err, "get process")
	}
	return p, nil
}

func (r *ProcessRepo) List(ctx context.Context, condominiumID uuid.UUID, teamID *uuid.UUID, page domain.Page) ([]*domain.Process, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+processColumns+` FROM processes
		WHERE condominium_id = $1 AND deleted_at IS NULL AND ($2::uuid IS NULL OR team_id = $2)
		ORDER BY name
		LIMIT $3 OFFSET $4`, condominiumID, teamID, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list processes")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Process, error) {
		return scanProcess(row)
	})
	if err != nil {
		return nil, mapError(err, "list processes")
	}
	return out, nil
}

func (r *ProcessRepo) Update(ctx context.Context, p *domain.Process) error {
	if p.Steps == nil {
		p.Steps = []string{}
	}
	err := r.pool.QueryRow(ctx, `
		UPDATE processes
		SET team_id = $3, name = $4, description = $5, steps = $6, status = $7, updated_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		p.CondominiumID, p.ID, p.TeamID, p.Name, p.Description, p.Steps, p.Status,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return mapError(err, "update process")
	}
	return nil
}

func (r *ProcessRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE processes SET deleted_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	if err != nil {
		return mapError(err, "delete process")
	}
	return expectOne(tag)
}
