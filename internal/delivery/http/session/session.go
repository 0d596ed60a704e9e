package http_session

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/PraiseKol/crossroads/internal/delivery/http/common"
	infra_platform_auth "github.com/PraiseKol/crossroads/internal/infra/platform/auth"
)

type Controller struct {
	auth   *infra_platform_auth.Client
	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(auth *infra_platform_auth.Client, opts ...ControllerOption) *Controller {
	c := &Controller{
		auth:   auth,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	session := router.Group("/session")
	{
		session.POST("", c.signIn)
		session.DELETE("", c.signOut)
		session.GET("", c.state)
	}
}

// SignInRequestDTO
type SignInRequestDTO struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponseDTO
type SessionResponseDTO struct {
	SignedIn bool   `json:"signed_in"`
	UserID   string `json:"user_id,omitempty"`
	// LastUserID is a display hint only, never an authenticated identity.
	LastUserID string `json:"last_user_id,omitempty"`
}

func (c *Controller) signIn(ctx *gin.Context) {
	var req SignInRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	userID, err := c.auth.SignIn(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.logger.Warn("sign in failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
			Message: "sign in failed",
		})
		return
	}

	ctx.JSON(http.StatusOK, SessionResponseDTO{
		SignedIn: true,
		UserID:   userID,
	})
}

func (c *Controller) signOut(ctx *gin.Context) {
	c.auth.SignOut()
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) state(ctx *gin.Context) {
	resp := SessionResponseDTO{
		LastUserID: c.auth.SignedInHint(),
	}
	if userID, ok := c.auth.UserID(); ok {
		resp.SignedIn = true
		resp.UserID = userID
	}
	ctx.JSON(http.StatusOK, resp)
}
