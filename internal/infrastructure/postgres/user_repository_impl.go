package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/userdir/user-directory-api/internal/domain/entity"
	"github.com/userdir/user-directory-api/internal/domain/repository"
	"github.com/userdir/user-directory-api/pkg/apperrors"
)

const userColumns = `id, first_name, last_name, email, phone, country, created_at, updated_at`

// searchPredicate matches the same term against all four searchable columns.
const searchPredicate = `(first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR country ILIKE $1)`

type UserRepository struct {
	gw *Gateway
}

func NewUserRepository(gw *Gateway) *UserRepository {
	return &UserRepository{gw: gw}
}

func (r *UserRepository) Insert(ctx context.Context, u *entity.User) (int64, error) {
	var id int64
	err := r.gw.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, phone, country)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, u.FirstName, u.LastName, u.Email, u.Phone, u.Country).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}
	err := r.gw.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Country,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	rows, err := r.gw.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.gw.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	return total, err
}

func (r *UserRepository) Search(ctx context.Context, term string, limit, offset int) ([]entity.User, error) {
	rows, err := r.gw.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+searchPredicate+`
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, likePattern(term), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepository) CountSearch(ctx context.Context, term string) (int64, error) {
	var total int64
	err := r.gw.QueryRow(ctx, `
		SELECT COUNT(*) FROM users WHERE `+searchPredicate+`
	`, likePattern(term)).Scan(&total)
	return total, err
}

func (r *UserRepository) ListByCountry(ctx context.Context, country string, limit, offset int) ([]entity.User, error) {
	rows, err := r.gw.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE country = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, country, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepository) CountByCountry(ctx context.Context, country string) (int64, error) {
	var total int64
	err := r.gw.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE country = $1`, country).Scan(&total)
	return total, err
}

// Update builds the statement from the supplied columns only; updated_at is
// always refreshed. An empty optional field is written as NULL.
func (r *UserRepository) Update(ctx context.Context, id int64, patch repository.UserPatch) error {
	set := make([]string, 0, 6)
	args := make([]any, 0, 6)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", nullable(*patch.Phone))
	}
	if patch.Country != nil {
		add("country", nullable(*patch.Country))
	}
	set = append(set, "updated_at = now()")

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	affected, err := r.gw.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("User not found")
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	return r.gw.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *UserRepository) CountryCounts(ctx context.Context) ([]entity.CountryCount, error) {
	rows, err := r.gw.Query(ctx, `
		SELECT country, COUNT(*) AS count
		FROM users
		WHERE country IS NOT NULL
		GROUP BY country
		ORDER BY count DESC, country ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.CountryCount, 0)
	for rows.Next() {
		var cc entity.CountryCount
		if err := rows.Scan(&cc.Country, &cc.Count); err != nil {
			return nil, translateError(err)
		}
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

func (r *UserRepository) RecentSince(ctx context.Context, since time.Time, limit int) ([]entity.User, error) {
	rows, err := r.gw.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE created_at >= $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]entity.User, error) {
	out := make([]entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
			&u.Country, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, translateError(err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

func likePattern(term string) string {
	return "%" + term + "%"
}

// nullable turns an explicitly cleared optional field into a NULL argument.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ repository.UserRepository = (*UserRepository)(nil)
