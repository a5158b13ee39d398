package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/poflow/backend/internal/infrastructure/logger"
)

// Keys used to store tenant information in gin.Context
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// DevTenantID is the fallback tenant used when no header is present and the
// middleware runs in permissive mode. Single-tenant deployments and local
// development never send the header.
var DevTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// TenantConfig holds configuration for the tenant middleware
type TenantConfig struct {
	// Required rejects requests without a tenant header instead of
	// falling back to DevTenantID
	Required bool
	// SkipPaths are paths that don't need tenant context
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultTenantConfig returns the default tenant middleware configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		Required:  false,
		SkipPaths: []string{"/", "/health", "/healthz"},
		Logger:    nil,
	}
}

// Tenant extracts the tenant ID from the X-Tenant-ID header
func Tenant() gin.HandlerFunc {
	return TenantWithConfig(DefaultTenantConfig())
}

// TenantWithConfig returns tenant middleware with custom configuration
func TenantWithConfig(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		header := strings.TrimSpace(c.GetHeader(TenantHeaderKey))

		var tenantID uuid.UUID
		switch {
		case header != "":
			parsed, err := uuid.Parse(header)
			if err != nil {
				respondUnauthorized(c, "Invalid tenant ID format")
				return
			}
			tenantID = parsed
		case cfg.Required:
			respondUnauthorized(c, "Tenant identification required")
			return
		default:
			tenantID = DevTenantID
		}

		c.Set(TenantIDKey, tenantID)

		// Propagate into the request context so downstream logs carry it
		ctx := c.Request.Context()
		log := cfg.Logger
		if log == nil {
			log = logger.FromContext(ctx)
		}
		ctx, _ = logger.WithTenantID(ctx, log, tenantID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequiredTenant returns tenant middleware that rejects requests without a header
func RequiredTenant() gin.HandlerFunc {
	cfg := DefaultTenantConfig()
	cfg.Required = true
	return TenantWithConfig(cfg)
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(TenantIDKey)
	if !exists {
		return uuid.Nil, false
	}
	tenantID, ok := value.(uuid.UUID)
	return tenantID, ok
}

// MustGetTenantID retrieves the tenant ID or panics if the middleware did not run
// Use this only in handlers registered behind the tenant middleware
func MustGetTenantID(c *gin.Context) uuid.UUID {
	tenantID, ok := GetTenantID(c)
	if !ok {
		panic("tenant_id not found in context")
	}
	return tenantID
}
