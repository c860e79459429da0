// Package authz implements the authorization decision engine.
//
// Every protected route passes through exactly one gate before its handler
// runs. A gate resolves the caller's claimed identity from the session
// cookie, optionally consults the user or message store, and produces an
// Allow or Deny decision. All gates are fail-closed: any ambiguous or
// erroring path denies, never silently allows, and the decision is computed
// to completion before enforcement so no gate branches on partial state.
//
// Three gates exist:
//
//   - the visibility gate: secret reads require any valid credential
//   - the actor-match gate: message creation requires the credential to match
//     the named actor, or no credential and an unregistered actor
//   - the author-match gate: message update/delete requires the credential to
//     match the stored author, with a bypass for missing resources
//
// Denials are uniform at the HTTP surface (403 with an empty body) so a
// caller cannot distinguish a missing token from a bad one or from a
// mismatched identity.
package authz
