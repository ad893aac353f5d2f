package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/userdir/user-directory-api/internal/application"
	"github.com/userdir/user-directory-api/pkg/response"
	"github.com/userdir/user-directory-api/pkg/validation"
)

type StatsHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewStatsHandler(svc *userapp.Service, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{Svc: svc, Logger: logger}
}

type countryStat struct {
	Country    string  `json:"country"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Overview returns the aggregate snapshot plus derived figures: country
// total, average users per country and the five largest countries.
func (h *StatsHandler) Overview(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	byCountry := make(map[string]int64, len(st.UsersByCountry))
	for _, cc := range st.UsersByCountry {
		byCountry[cc.Country] = cc.Count
	}

	totalCountries := len(st.UsersByCountry)
	average := 0.0
	if totalCountries > 0 {
		average = round2(float64(st.TotalUsers) / float64(totalCountries))
	}
	top := st.UsersByCountry
	if len(top) > 5 {
		top = top[:5]
	}

	response.Success(c, http.StatusOK, gin.H{
		"totalUsers":             st.TotalUsers,
		"totalCountries":         totalCountries,
		"averageUsersPerCountry": average,
		"usersByCountry":         byCountry,
		"topCountries":           top,
		"recentRegistrations":    st.RecentRegistrations,
		"lastUpdated":            time.Now().UTC().Format(time.RFC3339),
	}, "Statistics retrieved successfully")
}

// Countries returns the per-country breakdown with each country's share of
// the total, sorted by descending count.
func (h *StatsHandler) Countries(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	countries := make([]countryStat, 0, len(st.UsersByCountry))
	for _, cc := range st.UsersByCountry {
		pct := 0.0
		if st.TotalUsers > 0 {
			pct = round2(float64(cc.Count) / float64(st.TotalUsers) * 100)
		}
		countries = append(countries, countryStat{Country: cc.Country, Count: cc.Count, Percentage: pct})
	}

	response.Success(c, http.StatusOK, gin.H{
		"totalCountries": len(countries),
		"countries":      countries,
	}, "Country statistics retrieved successfully")
}

type recentQuery struct {
	Limit int `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}

// Recent returns the newest registrations from the last-7-days window.
func (h *StatsHandler) Recent(c *gin.Context) {
	var q recentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.ToDetails(err))
		return
	}
	st, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	recent := st.RecentRegistrations
	if len(recent) > q.Limit {
		recent = recent[:q.Limit]
	}

	response.Success(c, http.StatusOK, gin.H{
		"recentRegistrations": recent,
		"count":               len(recent),
	}, "Recent registrations retrieved successfully")
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
