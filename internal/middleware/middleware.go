package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	claimsKey       = "claims"
)

// TokenVerifier turns a bearer token into verified claims.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// RequestID tags every request with an id, reusing a sane incoming one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// ClientContext carries the caller's address into the request context for audit entries.
func ClientContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := services.WithClientIP(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verify(c, verifier)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Unauthorized: Invalid or missing token",
			})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuthenticate attaches claims when a valid token is present and lets
// every request through.
func OptionalAuthenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := verify(c, verifier); ok {
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

func verify(c *gin.Context, verifier TokenVerifier) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return nil, false
	}
	claims, err := verifier.VerifyToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// CurrentUser returns the claims set by Authenticate.
func CurrentUser(c *gin.Context) (*auth.Claims, bool) {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// LogFormatter is gin's access log line with the request id appended.
func LogFormatter(param gin.LogFormatterParams) string {
	requestID, _ := param.Keys[requestIDKey].(string)
	return fmt.Sprintf("[GIN] %s | %3d | %13v | %15s | %-7s %s | %s %s\n",
		param.TimeStamp.Format(time.RFC3339),
		param.StatusCode,
		param.Latency,
		param.ClientIP,
		param.Method,
		param.Path,
		requestID,
		param.ErrorMessage,
	)
}
