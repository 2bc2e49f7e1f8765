package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/auth"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/httputil"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/metrics"
)

const (
	ContextClaims   = "claims"
	ContextIdentity = "identity"

	HeaderDemoMode = "X-Demo-Mode"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

type IdentityResolver interface {
	Resolve(ctx context.Context, userID *uuid.UUID) (model.Identity, error)
}

type Authenticator struct {
	tokens   TokenValidator
	identity IdentityResolver
	metrics  *metrics.Metrics
}

func NewAuthenticator(tokens TokenValidator, identity IdentityResolver, m *metrics.Metrics) *Authenticator {
	return &Authenticator{tokens: tokens, identity: identity, metrics: m}
}

// Authenticate validates a bearer token when one is sent. A request with
// no Authorization header continues anonymously; a malformed, expired or
// revoked token is rejected.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse("invalid authorization header"))
			return
		}

		claims, err := a.tokens.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			if _, ok := apperrors.As(err); ok {
				httputil.RespondWithError(c, err)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse("invalid token"))
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireAuth rejects requests that Authenticate left anonymous.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ClaimsFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.NewErrorResponse("authentication required"))
			return
		}
		c.Next()
	}
}

// ResolveIdentity attaches the doctor the request acts for. Demo
// identities are counted under resource and flagged in the response.
func (a *Authenticator) ResolveIdentity(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID *uuid.UUID
		if claims, ok := ClaimsFrom(c); ok {
			id := claims.UserID
			userID = &id
		}

		ident, err := a.identity.Resolve(c.Request.Context(), userID)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}

		if ident.Demo {
			c.Header(HeaderDemoMode, "true")
			if a.metrics != nil {
				a.metrics.DemoRequests.WithLabelValues(resource).Inc()
			}
		}

		c.Set(ContextIdentity, ident)
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return model.Identity{}, false
	}
	ident, ok := v.(model.Identity)
	return ident, ok
}

// CurrentIdentity returns the resolved identity or writes a 401 when the
// route was registered without ResolveIdentity.
func CurrentIdentity(c *gin.Context) (model.Identity, bool) {
	ident, ok := IdentityFrom(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
	}
	return ident, ok
}
