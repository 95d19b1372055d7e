package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	accountsDomain "github.com/durfee/passwords/internal/accounts/domain"
	"github.com/durfee/passwords/internal/accounts/http/dto"
	accountsUseCase "github.com/durfee/passwords/internal/accounts/usecase"
	apperrors "github.com/durfee/passwords/internal/errors"
	"github.com/durfee/passwords/internal/httputil"
	customValidation "github.com/durfee/passwords/internal/validation"
)

// AccountHandler handles HTTP requests for account management operations.
type AccountHandler struct {
	accountUseCase accountsUseCase.AccountUseCase
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler with required dependencies.
func NewAccountHandler(accountUseCase accountsUseCase.AccountUseCase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUseCase: accountUseCase,
		logger:         logger,
	}
}

// tenant extracts the tenant key set by the client-DN middleware. Routes are
// always registered behind that middleware, so a missing tenant is a wiring
// bug reported as an internal error.
func (h *AccountHandler) tenant(c *gin.Context) (string, bool) {
	tenant, ok := GetTenant(c.Request.Context())
	if !ok {
		h.logger.Error("no tenant key in request context")
		httputil.HandleErrorGin(c, apperrors.New("missing tenant key"), h.logger)
		return "", false
	}
	return tenant, true
}

// GetHandler retrieves a single account by id and stamps its access time.
// GET /accounts/:accountID
// Returns 200 OK with the account record.
func (h *AccountHandler) GetHandler(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	account, err := h.accountUseCase.Get(c.Request.Context(), tenant, c.Param("accountID"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountToResponse(account))
}

// ListHandler retrieves every account matching the query options and stamps
// their access times.
// GET /accounts?domainName=...&order=...&orderBy=...
// Returns 200 OK with {items: [...]}; an unrecognized query parameter fails
// with 400 naming the parameter.
func (h *AccountHandler) ListHandler(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		params[key] = values[0]
	}

	opts, err := accountsDomain.ParseListOptions(params)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	accounts, err := h.accountUseCase.List(c.Request.Context(), tenant, opts)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountsToListResponse(accounts))
}

// CreateHandler stores a new account.
// POST /accounts
// Returns 200 OK with the created record.
func (h *AccountHandler) CreateHandler(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	account, err := h.accountUseCase.Create(
		c.Request.Context(),
		tenant,
		req.DomainName,
		req.Username,
		req.Password,
		req.Key,
		req.IV,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountToResponse(account))
}

// SetPasswordHandler replaces an account's password envelope.
// POST /accounts/:accountID/setPassword
// Returns 200 OK with the updated record.
func (h *AccountHandler) SetPasswordHandler(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	account, err := h.accountUseCase.SetPassword(
		c.Request.Context(),
		tenant,
		c.Param("accountID"),
		req.Password,
		req.Key,
		req.IV,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountToResponse(account))
}

// SetUsernameHandler replaces an account's username.
// POST /accounts/:accountID/setUsername
// Returns 200 OK with the updated record.
func (h *AccountHandler) SetUsernameHandler(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	var req dto.SetUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	account, err := h.accountUseCase.SetUsername(
		c.Request.Context(),
		tenant,
		c.Param("accountID"),
		req.Username,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountToResponse(account))
}

// DeleteHandler removes an account.
// DELETE /accounts/:accountID
// Returns 204 No Content on success.
func (h *AccountHandler) DeleteHandler(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	if err := h.accountUseCase.Delete(c.Request.Context(), tenant, c.Param("accountID")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
