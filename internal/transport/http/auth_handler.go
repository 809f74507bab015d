package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/identity"
	"vetpoint/backend/internal/service/auth"
)

type authService interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (auth.Session, error)
	SignIn(ctx context.Context, email, password string) (auth.Session, error)
	SignInWithProvider(ctx context.Context, provider identity.Provider, idToken string) (auth.Session, error)
	SignOut(ctx context.Context, userID string)
	GetProfile(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID string, upd auth.ProfileUpdate) (domain.User, error)
}

type AuthHandler struct {
	svc authService
	log *slog.Logger
}

func NewAuthHandler(svc authService, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{svc: svc, log: log.With(slog.String("component", "http.auth"))}
}

type sessionResponse struct {
	Token    string      `json:"token"`
	User     domain.User `json:"user"`
	Degraded bool        `json:"degraded,omitempty"`
}

func toSessionResponse(sess auth.Session) sessionResponse {
	return sessionResponse{Token: sess.Token, User: sess.User, Degraded: sess.Degraded}
}

type registerRequest struct {
	Email     string      `json:"email" binding:"required"`
	Password  string      `json:"password" binding:"required"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	sess, err := h.svc.SignUp(c.Request.Context(), auth.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info("user registered", slog.String("user_id", sess.User.ID))
	c.JSON(http.StatusCreated, toSessionResponse(sess))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	sess, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

type providerLoginRequest struct {
	Provider string `json:"provider" binding:"required"`
	IDToken  string `json:"idToken" binding:"required"`
}

func (h *AuthHandler) LoginWithProvider(c *gin.Context) {
	var req providerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider and idToken are required"})
		return
	}

	sess, err := h.svc.SignInWithProvider(c.Request.Context(), identity.Provider(req.Provider), req.IDToken)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if sess.Degraded {
		h.log.Warn("degraded session issued", slog.String("user_id", sess.User.ID))
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.SignOut(c.Request.Context(), actorFrom(c).UserID)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.svc.GetProfile(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Name      *string `json:"name"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	PhotoURL  *string `json:"photoUrl"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), actorFrom(c).UserID, auth.ProfileUpdate{
		Name:      req.Name,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
