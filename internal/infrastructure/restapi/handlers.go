package restapi

import (
	"errors"
	"net/http"
	"strconv"

	"dashboard_client/internal/app/port"
	"dashboard_client/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope of every facade response.
type APIResponse struct {
	Data          any    `json:"data,omitempty"`
	Error         string `json:"error,omitempty"`
	StatusMessage string `json:"status_message"`
}

// Handler serves the dashboard facade on top of the resource services.
type Handler struct {
	balances  port.BalanceService
	graphs    port.GraphService
	dashboard port.DashboardService
	logger    port.Logger
}

// NewHandler creates a new instance of Handler.
func NewHandler(bs port.BalanceService, gs port.GraphService, ds port.DashboardService, l port.Logger) *Handler {
	return &Handler{balances: bs, graphs: gs, dashboard: ds, logger: l}
}

// statusFor maps service errors onto facade status codes. Backend statuses
// pass through unchanged.
func statusFor(err error) int {
	var (
		se *entity.StatusError
		me *entity.MalformedEnvelopeError
		ne *entity.NetworkError
	)
	switch {
	case errors.Is(err, entity.ErrInvalidGraphRange):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNoSessionToken):
		return http.StatusUnauthorized
	case errors.As(err, &se):
		if se.StatusCode < http.StatusBadRequest || se.StatusCode > 599 {
			return http.StatusBadGateway
		}
		return se.StatusCode
	case errors.As(err, &me):
		return http.StatusBadGateway
	case errors.As(err, &ne):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.FullPath(), "status", status, "error", err)
	} else {
		h.logger.Debug("Request rejected", "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, APIResponse{Error: err.Error(), StatusMessage: http.StatusText(status)})
}

func ok(c *gin.Context, data any, msg string) {
	c.JSON(http.StatusOK, APIResponse{Data: data, StatusMessage: msg})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetMyBalance handles GET /balance/me?holdings=true.
func (h *Handler) GetMyBalance(c *gin.Context) {
	withHoldings, _ := strconv.ParseBool(c.DefaultQuery("holdings", "false"))
	view, err := h.balances.GetMyBalance(c.Request.Context(), withHoldings)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := "Balance retrieved successfully."
	if view.Error != "" {
		msg = "Balance retrieved with degraded figures."
	}
	ok(c, view, msg)
}

func (h *Handler) GetUserBalance(c *gin.Context) {
	summary, err := h.balances.GetUserBalance(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, summary, "User balance retrieved successfully.")
}

// GetTotalBalance returns the totals computed by the backend.
func (h *Handler) GetTotalBalance(c *gin.Context) {
	totals, err := h.balances.GetTotalBalance(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, totals, "Total balance retrieved successfully.")
}

// GetBalanceSummary returns the totals aggregated client-side across every user.
func (h *Handler) GetBalanceSummary(c *gin.Context) {
	totals, err := h.balances.AggregateAllUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := "Balances aggregated successfully."
	if totals.Skipped > 0 || totals.DegradedCount > 0 {
		msg = "Balances aggregated. Some users were skipped or degraded."
	}
	ok(c, totals, msg)
}

func (h *Handler) ListTokens(c *gin.Context) {
	tokens, err := h.dashboard.ListTokens(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, tokens, "Tokens retrieved successfully.")
}

// GetTokenGraph handles GET /tokens/:id/graph?type=max|1d|4h.
func (h *Handler) GetTokenGraph(c *gin.Context) {
	r := entity.GraphRange(c.DefaultQuery("type", string(entity.DefaultGraphRange)))
	points, err := h.graphs.GetTokenGraph(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, points, "Graph retrieved successfully.")
}

func (h *Handler) GetGraphStats(c *gin.Context) {
	stats, err := h.graphs.GetGraphStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, stats, "Graph stats retrieved successfully.")
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h *Handler) bindToggle(c *gin.Context) (bool, bool) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Error: err.Error(), StatusMessage: "Body must be {\"enabled\": bool}."})
		return false, false
	}
	return *req.Enabled, true
}

func (h *Handler) SetCronActive(c *gin.Context) {
	enabled, valid := h.bindToggle(c)
	if !valid {
		return
	}
	h.respondAction(c)(h.graphs.SetCronActive(c.Request.Context(), c.Param("id"), enabled))
}

func (h *Handler) SetAllowLatest(c *gin.Context) {
	enabled, valid := h.bindToggle(c)
	if !valid {
		return
	}
	h.respondAction(c)(h.graphs.SetAllowLatest(c.Request.Context(), c.Param("id"), enabled))
}

func (h *Handler) DeleteGraph(c *gin.Context) {
	h.respondAction(c)(h.graphs.DeleteGraph(c.Request.Context(), c.Param("id")))
}

// PopulateGraph handles POST /admin/tokens/:id/graph/populate?days=N.
func (h *Handler) PopulateGraph(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, APIResponse{Error: "days must be a positive integer", StatusMessage: http.StatusText(http.StatusBadRequest)})
		return
	}
	h.respondAction(c)(h.graphs.PopulateGraph(c.Request.Context(), c.Param("id"), days))
}

func (h *Handler) EnableCron(c *gin.Context) {
	h.respondAction(c)(h.graphs.EnableCron(c.Request.Context(), c.Param("id")))
}

func (h *Handler) respondAction(c *gin.Context) func(*entity.ActionResult, error) {
	return func(res *entity.ActionResult, err error) {
		if err != nil {
			h.fail(c, err)
			return
		}
		msg := res.Message
		if msg == "" {
			msg = "Command accepted."
		}
		ok(c, res, msg)
	}
}

// GetOverview returns every dashboard list; failed resources are reported
// per resource with 206 Partial Content.
func (h *Handler) GetOverview(c *gin.Context) {
	overview, err := h.dashboard.LoadOverview(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if !overview.Complete() {
		c.JSON(http.StatusPartialContent, APIResponse{Data: overview, StatusMessage: "Overview loaded. Some resources failed."})
		return
	}
	ok(c, overview, "Overview loaded successfully.")
}
