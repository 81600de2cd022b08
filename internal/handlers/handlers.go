package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yusuketakei/tickets/internal/api"
	"github.com/yusuketakei/tickets/internal/binary"
	"github.com/yusuketakei/tickets/internal/config"
	"github.com/yusuketakei/tickets/internal/interfaces"
	"github.com/yusuketakei/tickets/internal/models"
	"github.com/yusuketakei/tickets/internal/portfolio"
	"github.com/yusuketakei/tickets/internal/rates"
	"github.com/yusuketakei/tickets/internal/session"
)

type DashboardHandler struct {
	dashboard *portfolio.Dashboard
	sessions  *session.MemoryStore
	config    *config.ParsedConfig
}

func NewDashboardHandler(
	dashboard *portfolio.Dashboard,
	sessions *session.MemoryStore,
	cfg *config.ParsedConfig,
) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		sessions:  sessions,
		config:    cfg,
	}
}

// Register mounts every route on router
func (h *DashboardHandler) Register(router gin.IRouter) {
	// Web UI
	router.GET("/", h.HomePage)
	router.POST("/doTransfer", h.DoTransfer)

	api := router.Group("/api")
	{
		api.GET("/overview", h.GetOverview)
		api.GET("/transactions/:id", h.GetTransaction)
		api.GET("/rates/:from/:to", h.GetRate)
		api.GET("/transfers", h.GetTransfers)
	}

	router.GET("/health", h.HealthCheck)
}

// GET / - Ticket list for the selected user
func (h *DashboardHandler) HomePage(c *gin.Context) {
	userID := h.selectUser(c)

	overview, err := h.dashboard.Overview(c.Request.Context(), userID)
	if err != nil {
		status, apiErr := errorResponse(err)
		log.Printf("[HANDLER] Overview for user %q failed: %v", userID, err)
		c.HTML(status, "error.html", gin.H{
			"Error":     apiErr.Error,
			"Code":      apiErr.Code,
			"NavActive": "/",
		})
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"UserID":     userID,
		"User":       overview.User,
		"Found":      overview.Found,
		"Categories": overview.Categories.Summaries(),
		"Tickets":    overview.Tickets,
		"Verbose":    h.config.Server.Verbose,
		"Standalone": h.config.StandaloneMode,
		"NavActive":  "/",
	})
}

// POST /doTransfer - Transfer a ticket, then back to the list
func (h *DashboardHandler) DoTransfer(c *gin.Context) {
	var form struct {
		FromAccountNo         string `form:"fromAccountNo"`
		ToAccountNo           string `form:"toAccountNo"`
		FromAccountHolderName string `form:"fromAccountHolderName"`
		ToAccountHolderName   string `form:"toAccountHolderName"`
		FromPrinc             string `form:"fromPrinc"`
		FromCurrency          string `form:"fromCurrency"`
		ToAddress             string `form:"toAddress"`
		TicketID              string `form:"ticketId"`
	}
	if err := c.ShouldBind(&form); err != nil {
		h.transferFailed(c, http.StatusBadRequest, api.APIError{
			Error: "Invalid request format",
			Code:  api.ErrorCodeInvalidRequest,
		})
		return
	}

	ticketID, err := strconv.ParseUint(form.TicketID, 10, 64)
	if err != nil {
		h.transferFailed(c, http.StatusBadRequest, api.APIError{
			Error: "ticketId must be a positive integer",
			Code:  api.ErrorCodeInvalidRequest,
		})
		return
	}

	instr := models.TransferInstruction{
		FromAccountNo:         form.FromAccountNo,
		ToAccountNo:           form.ToAccountNo,
		FromAccountHolderName: form.FromAccountHolderName,
		ToAccountHolderName:   form.ToAccountHolderName,
		FromPrinc:             form.FromPrinc,
		FromCurrency:          form.FromCurrency,
		ToAddress:             form.ToAddress,
		TicketID:              ticketID,
		TransactionType:       0,
		Rate:                  decimal.NewFromInt(1),
	}

	hash, err := h.dashboard.Transfer(c.Request.Context(), instr)
	if err != nil {
		status, apiErr := errorResponse(err)
		h.transferFailed(c, status, apiErr)
		return
	}

	if h.config.Server.Verbose {
		log.Printf("[HANDLER] Transfer of ticket %d submitted: %s", ticketID, hash)
	}
	if wantsJSON(c) {
		c.JSON(http.StatusOK, api.TransferResponse{
			TransactionHash: hash,
			TicketID:        ticketID,
		})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// GET /api/overview - Overview as JSON
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	userID := h.selectUser(c)

	overview, err := h.dashboard.Overview(c.Request.Context(), userID)
	if err != nil {
		status, apiErr := errorResponse(err)
		c.JSON(status, apiErr)
		return
	}
	if !overview.Found {
		c.JSON(http.StatusNotFound, api.APIError{
			Error: "Unknown user",
			Code:  api.ErrorCodeUnknownUser,
		})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GET /api/transactions/:id - One decoded transfer record
func (h *DashboardHandler) GetTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.APIError{
			Error: "Transaction id must be an integer",
			Code:  api.ErrorCodeInvalidRequest,
		})
		return
	}

	tx, err := h.dashboard.Transaction(c.Request.Context(), id)
	if err != nil {
		status, apiErr := errorResponse(err)
		c.JSON(status, apiErr)
		return
	}

	c.JSON(http.StatusOK, tx)
}

// GET /api/rates/:from/:to - Rate file lookup
func (h *DashboardHandler) GetRate(c *gin.Context) {
	from, to := c.Param("from"), c.Param("to")

	rate, ok, err := h.dashboard.Rate(from, to)
	if err != nil {
		log.Printf("[HANDLER] Rate lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, api.APIError{
			Error: "Rate file unavailable",
			Code:  api.ErrorCodeRateUnavailable,
		})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, api.APIError{
			Error: "No rate for " + rates.Key(from, to),
			Code:  api.ErrorCodeNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, api.RateResponse{
		Key:     rates.Key(from, to),
		Rate:    rate.String(),
		Encoded: h.dashboard.Codec().RateToHex(rate),
	})
}

// GET /api/transfers - Transfers submitted by this process, newest first
func (h *DashboardHandler) GetTransfers(c *gin.Context) {
	records := h.dashboard.RecentTransfers()
	c.JSON(http.StatusOK, gin.H{
		"transfers": records,
		"count":     len(records),
	})
}

// GET /health - Health check
func (h *DashboardHandler) HealthCheck(c *gin.Context) {
	total, expired := h.sessions.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service":          "ticket-dashboard",
		"standalone_mode":  h.config.StandaloneMode,
		"sessions":         total,
		"expired_sessions": expired,
	})
}

// selectUser applies query > session > "" and remembers the choice
func (h *DashboardHandler) selectUser(c *gin.Context) string {
	sid, err := c.Cookie(session.CookieName)
	if err != nil || !session.ValidID(sid) {
		sid = session.NewID()
	}
	stored, _ := h.sessions.Get(sid)

	userID := portfolio.ResolveUserID(c.Query("userId"), stored)
	h.sessions.Set(sid, userID)
	c.SetCookie(session.CookieName, sid, int(h.sessions.MaxAge().Seconds()), "/", "", false, true)

	return userID
}

func (h *DashboardHandler) transferFailed(c *gin.Context, status int, apiErr api.APIError) {
	log.Printf("[HANDLER] Transfer failed: %s", apiErr.Error)
	if wantsJSON(c) {
		c.JSON(status, apiErr)
		return
	}
	c.HTML(status, "error.html", gin.H{
		"Error":     apiErr.Error,
		"Code":      apiErr.Code,
		"NavActive": "/transfer",
	})
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// errorResponse maps dashboard errors onto HTTP statuses
func errorResponse(err error) (int, api.APIError) {
	var decodeErr *binary.DecodeError
	var transferErr *portfolio.TransferError

	switch {
	case errors.As(err, &transferErr) && transferErr.Op == "validate":
		return http.StatusBadRequest, api.APIError{
			Error: transferErr.Err.Error(),
			Code:  api.ErrorCodeInvalidRequest,
		}
	case errors.As(err, &transferErr):
		return http.StatusBadGateway, api.APIError{
			Error:   "Transfer rejected",
			Code:    api.ErrorCodeTransferFailed,
			Details: transferErr.Err.Error(),
		}
	case errors.As(err, &decodeErr):
		return http.StatusBadGateway, api.APIError{
			Error:   "Contract returned malformed data",
			Code:    api.ErrorCodeMalformedData,
			Details: decodeErr.Error(),
		}
	case errors.Is(err, interfaces.ErrTicketNotFound), errors.Is(err, interfaces.ErrTransactionNotFound):
		return http.StatusNotFound, api.APIError{
			Error: err.Error(),
			Code:  api.ErrorCodeNotFound,
		}
	default:
		return http.StatusBadGateway, api.APIError{
			Error:   "Contract call failed",
			Code:    api.ErrorCodeContractError,
			Details: err.Error(),
		}
	}
}
