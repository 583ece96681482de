package middleware

import (
	"fmt"
	"strings"

	"portfolio-contact/pkg/apperror"
	"portfolio-contact/pkg/auth"
	"portfolio-contact/pkg/logger"
	"portfolio-contact/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the role claim required on admin tokens.
const AdminRole = "admin"

// Context keys set by AdminAuthMiddleware
const (
	KeyAdminSubject = "admin_sub"
)

// AdminAuthConfig selects how admin tokens are verified. Secret enables
// HS256, JWKS enables RS256 tokens from an identity provider.
type AdminAuthConfig struct {
	Secret string
	JWKS   *auth.Provider
	Audit  *security.AuditLogger
}

// AdminAuthMiddleware guards the message listing with a bearer token carrying
// role=admin. With neither key source configured the routes are disabled.
func AdminAuthMiddleware(cfg AdminAuthConfig) gin.HandlerFunc {
	audit := cfg.Audit
	return func(c *gin.Context) {
		if cfg.Secret == "" && cfg.JWKS == nil {
			_ = c.Error(apperror.ServiceUnavailable("Admin access is not configured", nil))
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || tokenString == "" {
			audit.LogAdminRejected(c.Request.Context(), c.ClientIP(), c.GetString("RequestID"), "", "missing_token", false)
			_ = c.Error(apperror.Unauthorized("Authorization header required"))
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			// Check signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
				if cfg.Secret == "" {
					return nil, fmt.Errorf("HS256 token received but ADMIN_JWT_SECRET is not configured")
				}
				return []byte(cfg.Secret), nil
			}

			if _, ok := token.Method.(*jwt.SigningMethodRSA); ok && cfg.JWKS != nil {
				return cfg.JWKS.KeyFunc(token)
			}

			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodRS256.Alg()}))

		if err != nil || !token.Valid {
			logger.Log.Warn("admin token rejected", "error", err, "ip", c.ClientIP())
			audit.LogAdminRejected(c.Request.Context(), c.ClientIP(), c.GetString("RequestID"), "", "invalid_token", false)
			_ = c.Error(apperror.Unauthorized("Invalid token"))
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			_ = c.Error(apperror.Unauthorized("Invalid claims"))
			c.Abort()
			return
		}

		// Expiry is checked by the parser when present; admin tokens must carry one
		if _, hasExp := claims["exp"]; !hasExp {
			_ = c.Error(apperror.Unauthorized("Token must expire"))
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		if role, _ := claims["role"].(string); role != AdminRole {
			audit.LogAdminRejected(c.Request.Context(), c.ClientIP(), c.GetString("RequestID"), sub, "role_"+role, true)
			_ = c.Error(apperror.Forbidden("Admin role required"))
			c.Abort()
			return
		}

		c.Set(KeyAdminSubject, sub)

		c.Next()
	}
}
