package projects

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Project is a stored record. Payload is the raw JSON document; parse it with
// ParsePayload when derived fields are needed.
type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Payload     []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *Repo) Create(ctx context.Context, userID string, s *NormalizedSave) (*Project, error) {
	if s.Name == "" {
		return nil, ErrNameRequired
	}

	const q = `
insert into projects (id, user_id, name, description, payload)
values ($1, $2::uuid, $3, $4, $5)
returning id, name, description, payload, created_at, updated_at;
`
	var p Project
	p.UserID = userID
	err := r.db.QueryRow(ctx, q, uuid.NewString(), userID, s.Name, s.Description, s.Data).
		Scan(&p.ID, &p.Name, &p.Description, &p.Payload, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the record's name, description, and full payload. Owner
// scoping happens in the where clause; a missing or foreign id is the same
// ErrNotFound either way.
func (r *Repo) Update(ctx context.Context, userID, id string, s *NormalizedSave) (*Project, error) {
	const q = `
update projects
set name = $3, description = $4, payload = $5, updated_at = now()
where user_id = $1::uuid and id = $2::uuid and deleted_at is null
returning id, name, description, payload, created_at, updated_at;
`
	var p Project
	p.UserID = userID
	err := r.db.QueryRow(ctx, q, userID, id, s.Name, s.Description, s.Data).
		Scan(&p.ID, &p.Name, &p.Description, &p.Payload, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByUser returns the caller's projects, payload included, most recently
// updated first.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Project, error) {
	const q = `
select id, name, description, payload, created_at, updated_at
from projects
where user_id = $1::uuid and deleted_at is null
order by updated_at desc;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		p.UserID = userID
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Payload, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, userID, id string) (*Project, error) {
	const q = `
select id, name, description, payload, created_at, updated_at
from projects
where user_id = $1::uuid and id = $2::uuid and deleted_at is null;
`
	var p Project
	p.UserID = userID
	err := r.db.QueryRow(ctx, q, userID, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Payload, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) SoftDelete(ctx context.Context, userID, id string) (bool, error) {
	const q = `
update projects
set deleted_at = now(), updated_at = now()
where user_id = $1::uuid and id = $2::uuid and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, userID, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// PurgeDeleted hard-deletes soft-deleted projects older than the retention
// window. Run from the maintenance scheduler.
func (r *Repo) PurgeDeleted(ctx context.Context, retention time.Duration) (int64, error) {
	const q = `
delete from projects
where deleted_at is not null and deleted_at < now() - make_interval(secs => $1);
`
	ct, err := r.db.Exec(ctx, q, retention.Seconds())
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
