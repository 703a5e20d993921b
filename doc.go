// Package identity provides the identity and action-authorization core for
// the FloraLens applications: federated login against an external OAuth
// provider, session identity resolution, and compact signed tokens that
// authorize a single action on a single resource for a bounded window.
//
// Federation:
//   - The federation subpackage drives the authorization-code handshake and
//     hands the normalized profile to this package, which resolves it into a
//     local User row (find by provider id, create on first login). The
//     provider-id column is unique at the storage layer, so concurrent first
//     logins collapse to one surviving row.
//
// Sessions:
//   - SessionResolver turns a user into an opaque session key (the internal
//     id) and, on each request, a session key back into a user. A key that no
//     longer resolves yields the anonymous identity, never an error.
//
// Action tokens:
//   - ActionTokenService issues self-contained HS256 tokens binding a
//     resource id, an action name, and an expiry. Verification distinguishes
//     bad signature, expiry, and action mismatch so handlers can render
//     accurate messages. Tokens carry no single-use state; consuming handlers
//     MUST make their state transition idempotent.
package identity
