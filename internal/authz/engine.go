package authz

import (
	"context"

	"github.com/kbukum/noteboard/internal/logger"
	"github.com/kbukum/noteboard/internal/storage"
)

// UserDirectory is the slice of the user store the engine consumes.
type UserDirectory interface {
	Exists(ctx context.Context, username string) (bool, error)
}

// MessageCatalog is the slice of the message store the engine consumes.
// It backs the ownership lookup: each call re-queries storage so decisions
// observe concurrent deletions.
type MessageCatalog interface {
	FindByID(ctx context.Context, id string) (*storage.Message, error)
}

// Engine computes allow/deny decisions for the three gates. It holds no
// per-request state; a single engine serves all requests concurrently.
type Engine struct {
	resolver *Resolver
	users    UserDirectory
	messages MessageCatalog
	log      *logger.Logger
}

// NewEngine creates the authorization engine.
func NewEngine(resolver *Resolver, users UserDirectory, messages MessageCatalog, log *logger.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		users:    users,
		messages: messages,
		log:      log.WithComponent("authz"),
	}
}

// DecideSecretRead is the visibility gate: any authenticated identity may
// read secret messages, anonymous and invalid credentials may not. The gate
// does not check which identity.
func (e *Engine) DecideSecretRead(ident Identity) Decision {
	switch ident.State {
	case CredentialValid:
		return Allow()
	case CredentialInvalid:
		return Deny(ReasonInvalidCredential)
	default:
		return Deny(ReasonMissingCredential)
	}
}

// DecideActorMatch is the actor-match gate for message creation: the
// credential must claim the named actor, or there must be no credential and
// the named actor must be unregistered.
func (e *Engine) DecideActorMatch(ctx context.Context, ident Identity, actor string) (Decision, error) {
	return e.decideIdentityMatch(ctx, ident, actor)
}

// DecideAuthorMatch is the author-match gate for message update/delete. The
// owner is resolved from storage by message id; a missing message bypasses
// the gate because the downstream operation no-ops on a missing id.
func (e *Engine) DecideAuthorMatch(ctx context.Context, ident Identity, messageID string) (Decision, error) {
	msg, err := e.messages.FindByID(ctx, messageID)
	if err != nil {
		return Decision{}, err
	}
	if msg == nil {
		return Allow(), nil
	}
	return e.decideIdentityMatch(ctx, ident, msg.Author)
}

// decideIdentityMatch compares the resolved identity against an owning
// identity. The registered-identity check protects accounts from anonymous
// impersonation while still letting unauthenticated callers act under a
// free username.
func (e *Engine) decideIdentityMatch(ctx context.Context, ident Identity, owner string) (Decision, error) {
	switch ident.State {
	case CredentialValid:
		if ident.Username == owner {
			return Allow(), nil
		}
		return Deny(ReasonIdentityMismatch), nil
	case CredentialInvalid:
		return Deny(ReasonInvalidCredential), nil
	}

	registered, err := e.users.Exists(ctx, owner)
	if err != nil {
		return Decision{}, err
	}
	if registered {
		return Deny(ReasonRegisteredIdentity), nil
	}
	return Allow(), nil
}
