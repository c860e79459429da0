package authz

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apperrors "github.com/kbukum/noteboard/internal/errors"
)

// actorBody is the slice of the creation request body the actor-match gate
// reads. The body is bound with ShouldBindBodyWith so the handler can bind
// it again.
type actorBody struct {
	User string `json:"user"`
}

// RequireTokenForSecret returns the visibility gate as middleware. The gate
// applies only when the route's secret parameter is "true"; public reads
// bypass it entirely regardless of credential state.
func (e *Engine) RequireTokenForSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("secret") != "true" {
			return
		}
		ident := e.resolver.Resolve(c)
		e.enforce(c, "visibility", e.DecideSecretRead(ident), nil)
	}
}

// RequireActorMatch returns the actor-match gate as middleware for message
// creation. The acting user is read from the request body.
func (e *Engine) RequireActorMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body actorBody
		// An unparseable body leaves the actor empty; the match logic then
		// denies authenticated callers and the handler rejects the rest.
		_ = c.ShouldBindBodyWith(&body, binding.JSON)

		ident := e.resolver.Resolve(c)
		decision, err := e.DecideActorMatch(c.Request.Context(), ident, body.User)
		e.enforce(c, "actor-match", decision, err)
	}
}

// RequireAuthorMatch returns the author-match gate as middleware for message
// update and delete, keyed by the id route parameter.
func (e *Engine) RequireAuthorMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := e.resolver.Resolve(c)
		decision, err := e.DecideAuthorMatch(c.Request.Context(), ident, c.Param("id"))
		e.enforce(c, "author-match", decision, err)
	}
}

// enforce translates a completed decision into the request's fate. It runs
// strictly after the gate's verification and storage lookups have returned,
// so it never observes a default or partial decision. Storage errors abort
// with a generic server error, never a silent allow. All denials collapse to
// the same forbidden signal.
func (e *Engine) enforce(c *gin.Context, gate string, decision Decision, err error) {
	if err != nil {
		e.log.Error("Gate lookup failed", map[string]interface{}{
			"gate":  gate,
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		appErr := apperrors.StorageFailure(err)
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	if !decision.Allowed {
		e.log.Debug("Request denied", map[string]interface{}{
			"gate":   gate,
			"path":   c.Request.URL.Path,
			"reason": string(decision.Reason),
		})
		c.AbortWithStatusJSON(http.StatusForbidden, []string{})
		return
	}
}
