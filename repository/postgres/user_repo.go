package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/repository"
)

const userColumns = `id, first_name, last_name, document_id, email, username, password_hash, role, is_active, created_at, updated_at`

// filterColumns maps API filter field names to table columns. Fields
// outside this map never reach the query builder.
var filterColumns = map[string]string{
	"firstName":  "first_name",
	"lastName":   "last_name",
	"documentID": "document_id",
	"email":      "email",
	"username":   "username",
	"role":       "role",
	"isActive":   "is_active",
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) List(ctx context.Context, matches []repository.FieldMatch) ([]domain.User, error) {
	var (
		clauses []string
		args    []interface{}
	)
	for _, m := range matches {
		column, ok := filterColumns[m.Field]
		if !ok {
			return nil, domain.NewError(domain.ErrCodeInvalid, "unknown filter field "+strconv.Quote(m.Field))
		}

		switch m.Kind {
		case repository.MatchBool:
			args = append(args, m.Bool)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
		case repository.MatchInt:
			// Identity columns are stored as text; integers compare on
			// their canonical decimal form.
			args = append(args, strconv.FormatInt(m.Int, 10))
			clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
		case repository.MatchExact:
			args = append(args, m.Text)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
		default:
			args = append(args, "%"+m.Text+"%")
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
		}
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	if user == nil {
		return "", domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO users (id, first_name, last_name, document_id, email, username, password_hash, role, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.DocumentID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return "", err
	}

	return user.ID, nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch repository.UserPatch) error {
	if patch.IsEmpty() {
		return domain.ErrEmptyUpdate
	}

	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.FirstName != nil {
		set("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		set("last_name", *patch.LastName)
	}
	if patch.DocumentID != nil {
		set("document_id", *patch.DocumentID)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Role != nil {
		set("role", *patch.Role)
	}
	if patch.IsActive != nil {
		set("is_active", *patch.IsActive)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s, updated_at = NOW() WHERE id = $%d RETURNING updated_at`,
		strings.Join(sets, ", "), len(args),
	)

	var updatedAt interface{}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.DocumentID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
