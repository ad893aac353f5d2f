package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/userdir/user-directory-api/internal/application"
	"github.com/userdir/user-directory-api/internal/domain/entity"
	repo "github.com/userdir/user-directory-api/internal/domain/repository"
	"github.com/userdir/user-directory-api/pkg/apperrors"
)

func ptr(s string) *string { return &s }

type stubRepo struct {
	insertFn         func(ctx context.Context, u *entity.User) (int64, error)
	getByIDFn        func(ctx context.Context, id int64) (*entity.User, error)
	listFn           func(ctx context.Context, limit, offset int) ([]entity.User, error)
	countFn          func(ctx context.Context) (int64, error)
	searchFn         func(ctx context.Context, term string, limit, offset int) ([]entity.User, error)
	countSearchFn    func(ctx context.Context, term string) (int64, error)
	listByCountryFn  func(ctx context.Context, country string, limit, offset int) ([]entity.User, error)
	countByCountryFn func(ctx context.Context, country string) (int64, error)
	updateFn         func(ctx context.Context, id int64, patch repo.UserPatch) error
	deleteFn         func(ctx context.Context, id int64) (int64, error)
	countryCountsFn  func(ctx context.Context) ([]entity.CountryCount, error)
	recentSinceFn    func(ctx context.Context, since time.Time, limit int) ([]entity.User, error)
}

func (s *stubRepo) Insert(ctx context.Context, u *entity.User) (int64, error) {
	return s.insertFn(ctx, u)
}
func (s *stubRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *stubRepo) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *stubRepo) Count(ctx context.Context) (int64, error) { return s.countFn(ctx) }
func (s *stubRepo) Search(ctx context.Context, term string, limit, offset int) ([]entity.User, error) {
	return s.searchFn(ctx, term, limit, offset)
}
func (s *stubRepo) CountSearch(ctx context.Context, term string) (int64, error) {
	return s.countSearchFn(ctx, term)
}
func (s *stubRepo) ListByCountry(ctx context.Context, country string, limit, offset int) ([]entity.User, error) {
	return s.listByCountryFn(ctx, country, limit, offset)
}
func (s *stubRepo) CountByCountry(ctx context.Context, country string) (int64, error) {
	return s.countByCountryFn(ctx, country)
}
func (s *stubRepo) Update(ctx context.Context, id int64, patch repo.UserPatch) error {
	return s.updateFn(ctx, id, patch)
}
func (s *stubRepo) Delete(ctx context.Context, id int64) (int64, error) { return s.deleteFn(ctx, id) }
func (s *stubRepo) CountryCounts(ctx context.Context) ([]entity.CountryCount, error) {
	return s.countryCountsFn(ctx)
}
func (s *stubRepo) RecentSince(ctx context.Context, since time.Time, limit int) ([]entity.User, error) {
	return s.recentSinceFn(ctx, since, limit)
}

var _ repo.UserRepository = (*stubRepo)(nil)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newUserRouter(r repo.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := userapp.NewService(r, nil, quietLogger(), 0)
	h := NewUserHandler(svc, quietLogger())

	engine := gin.New()
	users := engine.Group("/api/users")
	users.GET("", h.List)
	users.GET("/search", h.Search)
	users.GET("/country/:country", h.ByCountry)
	users.GET("/:id", h.Get)
	users.POST("", h.Create)
	users.PUT("/:id", h.Update)
	users.DELETE("/:id", h.Delete)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var parsed map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return w, parsed
}

func TestCreateUserValidationFailure(t *testing.T) {
	engine := newUserRouter(&stubRepo{
		insertFn: func(ctx context.Context, u *entity.User) (int64, error) {
			t.Fatal("invalid payload must not reach the store")
			return 0, nil
		},
	})

	w, body := doJSON(t, engine, http.MethodPost, "/api/users",
		`{"first_name":"J","last_name":"Doe","email":"nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["success"] != false || body["error"] != "Validation failed" {
		t.Fatalf("unexpected envelope: %v", body)
	}
	details, _ := body["details"].(map[string]any)
	if details["email"] != "Valid email address is required" {
		t.Fatalf("missing email detail: %v", details)
	}
}

func TestCreateUserSuccess(t *testing.T) {
	engine := newUserRouter(&stubRepo{
		insertFn: func(ctx context.Context, u *entity.User) (int64, error) { return 42, nil },
		getByIDFn: func(ctx context.Context, id int64) (*entity.User, error) {
			return &entity.User{ID: id, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}, nil
		},
	})

	w, body := doJSON(t, engine, http.MethodPost, "/api/users",
		`{"first_name":"Jane","last_name":"Doe","email":"jane@example.com"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if body["success"] != true || body["message"] != "User created successfully" {
		t.Fatalf("unexpected envelope: %v", body)
	}
	data, _ := body["data"].(map[string]any)
	if data["id"] != float64(42) || data["email"] != "jane@example.com" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	engine := newUserRouter(&stubRepo{
		insertFn: func(ctx context.Context, u *entity.User) (int64, error) {
			return 0, apperrors.Duplicate("Email address already exists")
		},
	})

	w, body := doJSON(t, engine, http.MethodPost, "/api/users",
		`{"first_name":"Jane","last_name":"Doe","email":"jane@example.com"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if body["error"] != "Email address already exists" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestGetUserInvalidID(t *testing.T) {
	engine := newUserRouter(&stubRepo{})

	w, body := doJSON(t, engine, http.MethodGet, "/api/users/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["error"] != "Valid user ID is required" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestGetUserNotFound(t *testing.T) {
	engine := newUserRouter(&stubRepo{
		getByIDFn: func(ctx context.Context, id int64) (*entity.User, error) {
			return nil, apperrors.NotFound("User not found")
		},
	})

	w, body := doJSON(t, engine, http.MethodGet, "/api/users/99", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body["error"] != "User not found" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestListUsersEnvelope(t *testing.T) {
	engine := newUserRouter(&stubRepo{
		countFn: func(ctx context.Context) (int64, error) { return 12, nil },
		listFn: func(ctx context.Context, limit, offset int) ([]entity.User, error) {
			if limit != 5 || offset != 5 {
				t.Fatalf("limit/offset = %d/%d, want 5/5", limit, offset)
			}
			return []entity.User{{ID: 7, Email: "jane@example.com"}}, nil
		},
	})

	w, body := doJSON(t, engine, http.MethodGet, "/api/users?page=2&limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	p, _ := body["pagination"].(map[string]any)
	if p["currentPage"] != float64(2) || p["totalPages"] != float64(3) || p["totalCount"] != float64(12) {
		t.Fatalf("unexpected pagination: %v", p)
	}
	if p["hasNext"] != true || p["hasPrev"] != true {
		t.Fatalf("unexpected pagination flags: %v", p)
	}
	if p["nextPage"] != float64(3) || p["prevPage"] != float64(1) {
		t.Fatalf("unexpected neighbour pages: %v", p)
	}
}

func TestListUsersRejectsBadQuery(t *testing.T) {
	engine := newUserRouter(&stubRepo{})

	w, body := doJSON(t, engine, http.MethodGet, "/api/users?limit=500", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["error"] != "Validation failed" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	engine := newUserRouter(&stubRepo{})

	w, body := doJSON(t, engine, http.MethodGet, "/api/users/search", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["error"] != "Search query is required" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestSearchReturnsMatches(t *testing.T) {
	engine := newUserRouter(&stubRepo{
		countSearchFn: func(ctx context.Context, term string) (int64, error) { return 1, nil },
		searchFn: func(ctx context.Context, term string, limit, offset int) ([]entity.User, error) {
			if term != "ali" {
				t.Fatalf("term = %q, want %q", term, "ali")
			}
			return []entity.User{{ID: 3, FirstName: "Alice"}}, nil
		},
	})

	w, body := doJSON(t, engine, http.MethodGet, "/api/users/search?q=ali", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["message"] != "Search results retrieved successfully" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestByCountryBlankName(t *testing.T) {
	engine := newUserRouter(&stubRepo{})

	w, body := doJSON(t, engine, http.MethodGet, "/api/users/country/%20%20", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["error"] != "Country name is required" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestUpdateUserEmptyPatch(t *testing.T) {
	engine := newUserRouter(&stubRepo{
		getByIDFn: func(ctx context.Context, id int64) (*entity.User, error) {
			return &entity.User{ID: id}, nil
		},
	})

	w, body := doJSON(t, engine, http.MethodPut, "/api/users/7", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["error"] != "No valid fields to update" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestDeleteUserEnvelope(t *testing.T) {
	engine := newUserRouter(&stubRepo{
		getByIDFn: func(ctx context.Context, id int64) (*entity.User, error) {
			return &entity.User{ID: id, Email: "jane@example.com"}, nil
		},
		deleteFn: func(ctx context.Context, id int64) (int64, error) { return 1, nil },
	})

	w, body := doJSON(t, engine, http.MethodDelete, "/api/users/7", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	data, _ := body["data"].(map[string]any)
	if data["deleted"] != true {
		t.Fatalf("missing deleted flag: %v", data)
	}
	user, _ := data["user"].(map[string]any)
	if user["email"] != "jane@example.com" {
		t.Fatalf("missing snapshot: %v", data)
	}
}

func TestStorageFailureIsOpaque500(t *testing.T) {
	engine := newUserRouter(&stubRepo{
		getByIDFn: func(ctx context.Context, id int64) (*entity.User, error) {
			return nil, apperrors.Database("Database operation failed", context.DeadlineExceeded)
		},
	})

	w, body := doJSON(t, engine, http.MethodGet, "/api/users/7", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body["error"] != "Database operation failed" {
		t.Fatalf("unexpected envelope: %v", body)
	}
	if strings.Contains(w.Body.String(), "deadline") {
		t.Fatal("internal cause must not leak to the client")
	}
}
