package application

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/userdir/user-directory-api/internal/domain/entity"
	repo "github.com/userdir/user-directory-api/internal/domain/repository"
	"github.com/userdir/user-directory-api/pkg/apperrors"
	"github.com/userdir/user-directory-api/pkg/helpers"
	"github.com/userdir/user-directory-api/pkg/pagination"
	"github.com/userdir/user-directory-api/pkg/validation"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	recentWindow = 7 * 24 * time.Hour
	recentLimit  = 10

	statsCacheKey = "stats:users"
)

// Service implements the record-level operations over the user store:
// validation, normalization, pagination, search and aggregate statistics.
// It is stateless between calls; the shared pool lives behind Repo.
type Service struct {
	Repo          repo.UserRepository
	Redis         *redis.Client
	Logger        *logrus.Logger
	StatsCacheTTL time.Duration
}

func NewService(r repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, statsCacheTTL time.Duration) *Service {
	return &Service{Repo: r, Redis: rdb, Logger: logger, StatsCacheTTL: statsCacheTTL}
}

// CreateUserInput is a full payload for user creation. Phone and Country are
// optional.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Country   *string
}

// UpdateUserInput is a partial payload: nil fields are left untouched, and an
// optional field supplied as an empty string is cleared to NULL.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Country   *string
}

// UserPage is one window of records plus its pagination metadata.
type UserPage struct {
	Users      []entity.User
	Pagination pagination.Meta
}

// DeleteResult carries the confirmation flag and the pre-deletion snapshot.
type DeleteResult struct {
	Deleted bool         `json:"deleted"`
	User    *entity.User `json:"user"`
}

// Stats is the aggregate snapshot backing the /stats endpoints.
// UsersByCountry is ordered by descending count.
type Stats struct {
	TotalUsers          int64                 `json:"totalUsers"`
	UsersByCountry      []entity.CountryCount `json:"usersByCountry"`
	RecentRegistrations []entity.User         `json:"recentRegistrations"`
}

// Create validates and normalizes the input, inserts the record, and returns
// the freshly read-back row so the caller sees the generated identity and
// timestamps rather than echoed input.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	fields := validation.UserFields{
		FirstName: &in.FirstName,
		LastName:  &in.LastName,
		Email:     &in.Email,
		Phone:     in.Phone,
		Country:   in.Country,
	}
	if errs := validation.ValidateUser(fields, false); len(errs) > 0 {
		return nil, apperrors.Validation("Validation failed", errs)
	}

	f := validation.NormalizeUser(fields)
	u := &entity.User{
		FirstName: *f.FirstName,
		LastName:  *f.LastName,
		Email:     *f.Email,
		Phone:     optional(f.Phone),
		Country:   optional(f.Country),
	}
	id, err := s.Repo.Insert(ctx, u)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if id <= 0 {
		return nil, apperrors.Validation("Valid user ID is required", nil)
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page, limit int) (*UserPage, error) {
	page, limit = clampPage(page, limit)
	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.Repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Pagination: pagination.NewMeta(page, limit, total)}, nil
}

// Update confirms the record exists, validates only the supplied fields, and
// issues an update touching only those columns. The creation timestamp and
// identity are never written.
func (s *Service) Update(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error) {
	if id <= 0 {
		return nil, apperrors.Validation("Valid user ID is required", nil)
	}
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	fields := validation.UserFields{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Country:   in.Country,
	}
	if errs := validation.ValidateUser(fields, true); len(errs) > 0 {
		return nil, apperrors.Validation("Validation failed", errs)
	}

	f := validation.NormalizeUser(fields)
	patch := repo.UserPatch{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Country:   f.Country,
	}
	if patch.Empty() {
		return nil, apperrors.Validation("No valid fields to update", nil)
	}

	if err := s.Repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return s.Repo.GetByID(ctx, id)
}

// Delete reads the record first so the response can include the pre-deletion
// snapshot. A concurrent delete between the read and the DELETE shows up as
// zero affected rows and is reported as NotFound.
func (s *Service) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	if id <= 0 {
		return nil, apperrors.Validation("Valid user ID is required", nil)
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	affected, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperrors.NotFound("User not found")
	}
	s.invalidateStats(ctx)
	return &DeleteResult{Deleted: true, User: u}, nil
}

// Search matches the term as a case-insensitive substring across first name,
// last name, email and country. A blank term degrades to a plain listing.
func (s *Service) Search(ctx context.Context, term string, page, limit int) (*UserPage, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx, page, limit)
	}
	page, limit = clampPage(page, limit)
	total, err := s.Repo.CountSearch(ctx, term)
	if err != nil {
		return nil, err
	}
	users, err := s.Repo.Search(ctx, term, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Pagination: pagination.NewMeta(page, limit, total)}, nil
}

func (s *Service) ByCountry(ctx context.Context, country string, page, limit int) (*UserPage, error) {
	if strings.TrimSpace(country) == "" {
		return nil, apperrors.Validation("Country name is required", nil)
	}
	page, limit = clampPage(page, limit)
	total, err := s.Repo.CountByCountry(ctx, country)
	if err != nil {
		return nil, err
	}
	users, err := s.Repo.ListByCountry(ctx, country, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Pagination: pagination.NewMeta(page, limit, total)}, nil
}

// Stats assembles the aggregate snapshot, serving from the Redis cache when
// one is configured. Cache failures are logged and otherwise ignored.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.cacheEnabled() {
		var cached Stats
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, statsCacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	byCountry, err := s.Repo.CountryCounts(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.RecentSince(ctx, time.Now().Add(-recentWindow), recentLimit)
	if err != nil {
		return nil, err
	}

	st := &Stats{TotalUsers: total, UsersByCountry: byCountry, RecentRegistrations: recent}
	if s.cacheEnabled() {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsCacheKey, st, s.StatsCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("stats cache write failed")
		}
	}
	return st, nil
}

func (s *Service) cacheEnabled() bool {
	return s.Redis != nil && s.StatsCacheTTL > 0
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, statsCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("stats cache invalidation failed")
	}
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// optional collapses an absent or empty optional field into a NULL marker.
func optional(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}
