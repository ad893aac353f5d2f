package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/userdir/user-directory-api/internal/application"
	"github.com/userdir/user-directory-api/pkg/apperrors"
	"github.com/userdir/user-directory-api/pkg/response"
	"github.com/userdir/user-directory-api/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Country   *string `json:"country"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Country   *string `json:"country"`
}

type listQuery struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}

func (h *UserHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.ToDetails(err))
		return
	}
	page, err := h.Svc.List(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, page.Users, "Users retrieved successfully", &page.Pagination)
}

func (h *UserHandler) Search(c *gin.Context) {
	term, ok := c.GetQuery("q")
	if !ok {
		response.Error(c, http.StatusBadRequest, "Search query is required", nil)
		return
	}
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.ToDetails(err))
		return
	}
	page, err := h.Svc.Search(c.Request.Context(), term, q.Page, q.Limit)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, page.Users, "Search results retrieved successfully", &page.Pagination)
}

func (h *UserHandler) ByCountry(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.ToDetails(err))
		return
	}
	page, err := h.Svc.ByCountry(c.Request.Context(), c.Param("country"), q.Page, q.Limit)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, page.Users, "Users retrieved successfully", &page.Pagination)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "User retrieved successfully")
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), userapp.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Country:   req.Country,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "User created successfully")
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, userapp.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Country:   req.Country,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "User updated successfully")
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	res, err := h.Svc.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "User deleted successfully")
}

// userID parses the :id path parameter; a non-numeric value is rejected
// before the service is involved.
func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Valid user ID is required", nil)
		return 0, false
	}
	return id, true
}

// respondError translates a service error into its HTTP rendering. Anything
// outside the taxonomy is reported as a bare 500 with no internal detail.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if ae, ok := apperrors.From(err); ok {
		if status == http.StatusInternalServerError && logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("storage failure")
		}
		response.Error(c, status, ae.Message, ae.Details)
		return
	}
	if logger != nil {
		logger.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
	}
	response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
}
