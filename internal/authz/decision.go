package authz

// Reason records why a request was denied. Reasons are logged server-side
// only; the HTTP response never distinguishes them.
type Reason string

const (
	// ReasonMissingCredential denies a request that needed a credential but
	// presented none.
	ReasonMissingCredential Reason = "missing_credential"
	// ReasonInvalidCredential denies a request whose credential failed
	// verification.
	ReasonInvalidCredential Reason = "invalid_credential"
	// ReasonIdentityMismatch denies a request whose valid credential claims
	// a different identity than the one required.
	ReasonIdentityMismatch Reason = "identity_mismatch"
	// ReasonRegisteredIdentity denies an anonymous request acting as an
	// identity that belongs to a registered account.
	ReasonRegisteredIdentity Reason = "registered_identity"
)

// Decision is the ephemeral per-request outcome of a gate.
type Decision struct {
	Allowed bool
	Reason  Reason // set only on deny
}

// Allow produces a granting decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny produces a denying decision with the given reason.
func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}
