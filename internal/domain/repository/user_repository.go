package repository

import (
	"context"
	"time"

	"github.com/userdir/user-directory-api/internal/domain/entity"
)

// UserPatch carries the columns an update should touch. A nil field is left
// untouched; a non-nil empty Phone or Country clears the column to NULL.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Country   *string
}

// Empty reports whether the patch touches no column at all.
func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Phone == nil && p.Country == nil
}

// UserRepository defines the interface for user-related database operations.
// Listing methods return records ordered newest-created first, id as the
// tie-breaker.
type UserRepository interface {
	Insert(ctx context.Context, u *entity.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, term string, limit, offset int) ([]entity.User, error)
	CountSearch(ctx context.Context, term string) (int64, error)
	ListByCountry(ctx context.Context, country string, limit, offset int) ([]entity.User, error)
	CountByCountry(ctx context.Context, country string) (int64, error)
	Update(ctx context.Context, id int64, patch UserPatch) error
	Delete(ctx context.Context, id int64) (int64, error)
	CountryCounts(ctx context.Context) ([]entity.CountryCount, error)
	RecentSince(ctx context.Context, since time.Time, limit int) ([]entity.User, error)
}
