package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"
	"syncfit/connect-api/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// Constants for context keys
const (
	ContextIdentityKey  = "identity"
	ContextUserRoleKey  = "userRole"
	ContextRequestIDKey = "requestID"
)

const requestIDHeader = "X-Request-ID"

// Policy is the access rule attached to a route.
type Policy int

const (
	Public Policy = iota
	Authenticated
	AdminOnly
	TrainerOrAdmin
)

func (p Policy) String() string {
	switch p {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	case TrainerOrAdmin:
		return "trainer-or-admin"
	}
	return "unknown"
}

// roles returns the stored roles the policy admits, or nil when any
// authenticated caller is enough.
func (p Policy) roles() []domain.Role {
	switch p {
	case AdminOnly:
		return []domain.Role{domain.RoleAdmin}
	case TrainerOrAdmin:
		return []domain.Role{domain.RoleTrainer, domain.RoleAdmin}
	}
	return nil
}

// Gate enforces a route's Policy. The token proves who the caller is; the
// role always comes from the stored user so promotions apply immediately.
func Gate(policy Policy, authService service.AuthService, userService service.UserService) gin.HandlerFunc {
	allowedRoles := policy.roles()
	return func(c *gin.Context) {
		if policy == Public {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "unauthorized access")
			return
		}
		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, http.StatusUnauthorized, "unauthorized access")
			return
		}

		identity, err := authService.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "unauthorized access")
			}
			return
		}
		c.Set(ContextIdentityKey, identity)

		if len(allowedRoles) == 0 {
			c.Next()
			return
		}

		role, err := userService.RoleOf(c.Request.Context(), identity.Email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortWithError(c, http.StatusForbidden, "forbidden access")
				return
			}
			respondError(c, err)
			return
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Set(ContextUserRoleKey, role)
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, "forbidden access")
	}
}

// Helper function to get the caller's identity from context (used by handlers)
func identityFromContext(c *gin.Context) (*domain.Identity, error) {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, errors.New("identity not found in context")
	}
	identity, ok := raw.(*domain.Identity)
	if !ok {
		return nil, errors.New("invalid identity type in context")
	}
	return identity, nil
}

// roleFromContext returns the role the gate resolved. It is only set on
// routes whose policy checks a role.
func roleFromContext(c *gin.Context) domain.Role {
	role, _ := c.Get(ContextUserRoleKey)
	r, _ := role.(domain.Role)
	return r
}

// RequestIDMiddleware adds a unique request ID to each request.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ContextRequestIDKey)
}

// CORSMiddleware runs rs/cors inside the gin chain. Preflight requests are
// answered by cors and stop here.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	handler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         86400,
	})
	return func(c *gin.Context) {
		handler.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	visitors  map[string]*visitor
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// client with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(rps),
		burst:     burst,
		idle:      10 * time.Minute,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Get or create a rate limiter for an IP
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	if v, exists := rl.visitors[ip]; exists {
		v.lastSeen = now
		return v.limiter
	}

	v := &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst), lastSeen: now}
	rl.visitors[ip] = v
	return v.limiter
}

// sweep forgets clients not seen for the idle period. Runs at most once
// per idle period; callers hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idle {
		return
	}
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) >= rl.idle {
			delete(rl.visitors, ip)
		}
	}
	rl.lastSweep = now
}

// Limit is the gin middleware enforcing the per-IP limit.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getLimiter(c.ClientIP()).Allow() {
			log.Printf("WARN: [%s] Rate limit exceeded for %s on %s", requestID(c), c.ClientIP(), c.FullPath())
			abortWithError(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
