package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/middleware"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/auth"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/httputil"
)

type Service interface {
	SignUp(ctx context.Context, req *model.SignUpRequest) (*model.TokenResponse, error)
	SignIn(ctx context.Context, req *model.SignInRequest) (*model.TokenResponse, error)
	SignOut(ctx context.Context, claims *auth.Claims) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

// SessionCache drops per-user state held outside the token.
type SessionCache interface {
	Invalidate(userID uuid.UUID)
}

type Handler struct {
	svc         Service
	requireAuth gin.HandlerFunc
	sessions    SessionCache
}

// NewHandler takes the middleware guarding signout and me, which need a
// validated bearer token. sessions may be nil.
func NewHandler(svc Service, requireAuth gin.HandlerFunc, sessions SessionCache) *Handler {
	return &Handler{svc: svc, requireAuth: requireAuth, sessions: sessions}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/signin", h.SignIn)
		auth.POST("/signout", h.requireAuth, h.SignOut)
		auth.GET("/me", h.requireAuth, h.Me)
	}
}

func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	tokens, err := h.svc.SignUp(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	log.Info().Str("user_id", tokens.User.ID.String()).Msg("doctor signed up")
	httputil.RespondWithCreated(c, tokens)
}

func (h *Handler) SignIn(c *gin.Context) {
	var req model.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	tokens, err := h.svc.SignIn(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) SignOut(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	if err := h.svc.SignOut(c.Request.Context(), claims); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if h.sessions != nil && claims != nil {
		h.sessions.Invalidate(claims.UserID)
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse("signed out"))
}

func (h *Handler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	user, err := h.svc.CurrentUser(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, user)
}
