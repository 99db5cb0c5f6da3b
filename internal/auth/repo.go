package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Email        *string    `json:"email,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func (r *Repo) Create(ctx context.Context, username, passwordHash string, email *string) (*User, error) {
	const q = `
insert into users (id, username, password_hash, email)
values ($1, $2, $3, $4)
returning id, username, password_hash, email, created_at, last_login;
`
	var u User
	err := r.db.QueryRow(ctx, q, uuid.NewString(), username, passwordHash, email).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	const q = `
select id, username, password_hash, email, created_at, last_login
from users
where username = $1;
`
	var u User
	err := r.db.QueryRow(ctx, q, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	const q = `
select id, username, password_hash, email, created_at, last_login
from users
where id = $1::uuid;
`
	var u User
	err := r.db.QueryRow(ctx, q, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) TouchLastLogin(ctx context.Context, id string) error {
	const q = `
update users
set last_login = now()
where id = $1::uuid;
`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
