package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/doorkeeper/internal/domain/registry"
	apperrors "github.com/avolkov/doorkeeper/pkg/errors"
)

// RegistrationHandler wires the HTTP transport to the registry service.
type RegistrationHandler struct {
	svc     registry.Service
	logger  *slog.Logger
	metrics *httpMetrics
}

// NewRegistrationHandler constructs the root HTTP handler.
func NewRegistrationHandler(svc registry.Service, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		svc:     svc,
		logger:  logger.With("component", "http.handler"),
		metrics: newHTTPMetrics(),
	}
}

// Register handles PUT. Credentials ride in the HTTP Basic header: username
// is the email, password is the plaintext password.
func (h *RegistrationHandler) Register(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		h.metrics.recordOutcome(registry.CodeInvalidCredentials)
		abortWithError(c, NewHTTPError(http.StatusBadRequest, registry.CodeInvalidCredentials, "Missing or malformed credentials", nil))
		return
	}

	_, err := h.svc.Register(c.Request.Context(), registry.Credentials{Email: email, Password: password})
	if err != nil {
		code := apperrors.CodeOf(err)
		status := http.StatusInternalServerError
		switch code {
		case registry.CodeInvalidCredentials, registry.CodeNotEligible, registry.CodeAlreadyRegistered:
			status = http.StatusBadRequest
		}
		h.metrics.recordOutcome(code)
		abortWithError(c, NewHTTPError(status, code, apperrors.MessageOf(err), err))
		return
	}

	h.metrics.recordOutcome("registered")
	c.String(http.StatusOK, "Registered")
}

// Ok answers HEAD and OPTIONS, which succeed regardless of credentials.
func (h *RegistrationHandler) Ok(c *gin.Context) {
	c.String(http.StatusOK, "Ok")
}

// Health is the liveness probe.
func (h *RegistrationHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "Ok")
}
