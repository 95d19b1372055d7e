package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/durfee/passwords/internal/httputil"
	"github.com/durfee/passwords/internal/identity"
)

// ClientDNHeader is the header carrying the verified client certificate
// subject DN, set by the mTLS terminating proxy in front of this service.
const ClientDNHeader = "X-SSL-Client-DN"

// ClientDNMiddleware derives the caller's tenant key from the forwarded
// client certificate subject DN and stores it in the request context.
//
// A missing header yields an empty tenant key, which scopes every operation
// to records whose tenant key is also empty, never to all records. A DN that
// cannot be parsed fails the request with 400.
func ClientDNMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		attrs, err := identity.ParseDN(c.GetHeader(ClientDNHeader))
		if err != nil {
			logger.Debug("rejecting malformed client DN", slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		tenant := identity.TenantKey(attrs)
		c.Request = c.Request.WithContext(WithTenant(c.Request.Context(), tenant))
		c.Next()
	}
}
