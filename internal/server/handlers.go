package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/kbukum/noteboard/internal/authz"
	apperrors "github.com/kbukum/noteboard/internal/errors"
	"github.com/kbukum/noteboard/internal/logger"
	"github.com/kbukum/noteboard/internal/password"
	"github.com/kbukum/noteboard/internal/storage"
	"github.com/kbukum/noteboard/internal/token"
	"github.com/kbukum/noteboard/internal/validation"
)

// UserStore is the slice of the user store the handlers consume.
type UserStore interface {
	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, username, passwordHash string) (*storage.User, error)
	FindByUsername(ctx context.Context, username string) (*storage.User, error)
}

// MessageStore is the slice of the message store the handlers consume.
type MessageStore interface {
	Create(ctx context.Context, msg *storage.Message) error
	FindByID(ctx context.Context, id string) (*storage.Message, error)
	UpdateByID(ctx context.Context, id string, patch storage.MessagePatch) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
	ListByVisibility(ctx context.Context, secret bool) ([]storage.Message, error)
}

// Handler carries the route handlers and their collaborators.
type Handler struct {
	users    UserStore
	messages MessageStore
	tokens   *token.Service
	hasher   password.Hasher
	gates    *authz.Engine
	log      *logger.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(users UserStore, messages MessageStore, tokens *token.Service, hasher password.Hasher, gates *authz.Engine, log *logger.Logger) *Handler {
	return &Handler{
		users:    users,
		messages: messages,
		tokens:   tokens,
		hasher:   hasher,
		gates:    gates,
		log:      log.WithComponent("handlers"),
	}
}

// Register mounts all routes on the engine. Each protected route passes
// through exactly one authorization gate before its handler.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/signup", h.signup)
	r.POST("/login", h.login)
	r.POST("/logout", h.logout)

	r.GET("/:secret", h.gates.RequireTokenForSecret(), h.listMessages)
	r.POST("/message", h.gates.RequireActorMatch(), h.createMessage)
	r.PATCH("/message/:id", h.gates.RequireAuthorMatch(), h.updateMessage)
	r.DELETE("/message/:id", h.gates.RequireAuthorMatch(), h.deleteMessage)
}

// --- Accounts ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	exists, err := h.users.Exists(ctx, req.Username)
	if err != nil {
		h.failStorage(c, "signup", err)
		return
	}
	if exists {
		RespondWithError(c, apperrors.Validation("username is already taken"))
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.log.Error("Password hashing failed", logger.ErrorFields("signup", err))
		RespondWithError(c, apperrors.Internal(err))
		return
	}

	user, err := h.users.Create(ctx, req.Username, hash)
	if err != nil {
		h.failStorage(c, "signup", err)
		return
	}

	if !h.issueSession(c, user.Username) {
		return
	}

	h.log.Info("User registered", map[string]interface{}{"username": user.Username})
	RespondCreated(c, user)
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		RespondWithError(c, err)
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.failStorage(c, "login", err)
		return
	}
	// Unknown user and wrong password are indistinguishable to the caller.
	if user == nil {
		RespondWithError(c, apperrors.Unauthorized("invalid username or password"))
		return
	}
	if err := h.hasher.Verify(req.Password, user.PasswordHash); err != nil {
		RespondWithError(c, apperrors.Unauthorized("invalid username or password"))
		return
	}

	if !h.issueSession(c, user.Username) {
		return
	}

	RespondOK(c, gin.H{"username": user.Username})
}

func (h *Handler) logout(c *gin.Context) {
	h.clearSessionCookie(c)
	RespondOK(c, gin.H{"status": "logged out"})
}

// --- Messages ---

type createMessageRequest struct {
	User   string `json:"user" validate:"required,max=64"`
	Body   string `json:"message" validate:"required"`
	Secret bool   `json:"secret"`
}

func (h *Handler) listMessages(c *gin.Context) {
	secret := c.Param("secret") == "true"

	msgs, err := h.messages.ListByVisibility(c.Request.Context(), secret)
	if err != nil {
		h.failStorage(c, "list", err)
		return
	}
	if msgs == nil {
		msgs = []storage.Message{}
	}
	// The feed is a bare array: an empty board and a denial read the same
	// shape at the client.
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) createMessage(c *gin.Context) {
	var req createMessageRequest
	// The actor-match gate already bound the body; read it from the cache.
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		RespondWithError(c, apperrors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		RespondWithError(c, err)
		return
	}

	msg := &storage.Message{
		Body:   req.Body,
		Author: req.User,
		Secret: req.Secret,
	}
	if err := h.messages.Create(c.Request.Context(), msg); err != nil {
		h.failStorage(c, "create", err)
		return
	}

	h.log.Info("Message created", map[string]interface{}{
		"id":     msg.ID.String(),
		"author": msg.Author,
		"secret": msg.Secret,
	})
	RespondCreated(c, msg)
}

func (h *Handler) updateMessage(c *gin.Context) {
	var patch storage.MessagePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondWithError(c, apperrors.Validation("invalid request body"))
		return
	}

	modified, err := h.messages.UpdateByID(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.failStorage(c, "update", err)
		return
	}

	// A missing id modifies zero rows and still succeeds.
	c.JSON(http.StatusOK, gin.H{"modifiedCount": modified})
}

func (h *Handler) deleteMessage(c *gin.Context) {
	deleted, err := h.messages.DeleteByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failStorage(c, "delete", err)
		return
	}

	// Deleting an already-deleted id reports zero affected rows, not an error.
	c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
}

// --- Session helpers ---

// issueSession mints a session token and sets the carrying cookie. Returns
// false after responding when issuance fails.
func (h *Handler) issueSession(c *gin.Context, username string) bool {
	tok, err := h.tokens.Issue(username)
	if err != nil {
		h.log.Error("Token issuance failed", logger.ErrorFields("session", err))
		RespondWithError(c, apperrors.Internal(err))
		return false
	}
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(authz.CookieName, tok, int(h.tokens.SessionTTL().Seconds()), "/", "", true, true)
	return true
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(authz.CookieName, "", -1, "/", "", true, true)
}

// failStorage logs a storage collaborator failure and responds with a
// generic server error. Never surfaces storage detail to the client.
func (h *Handler) failStorage(c *gin.Context, op string, err error) {
	h.log.Error("Storage operation failed", logger.ErrorFields(op, err))
	RespondWithError(c, apperrors.StorageFailure(err))
}
