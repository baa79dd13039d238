// Package usuarios is a Go client for the Usuarios administration backend.
// It maintains an authenticated session over JWT bearer tokens, including
// transparent single-flight refresh and proactive renewal before expiry, and
// exposes the backend's REST surface (users, roles, permissions, email
// configuration, password management) as typed methods on [Client].
//
// Clients are built through [Builder.Build] and are safe for concurrent use
// after construction. Construction performs no I/O; the first network
// activity happens in [Client.Start], [Client.Login], or the first API call.
//
// # Architecture boundaries
//
// usuarios is the public surface. It exposes [Client], [Builder], [Config],
// and value types (User, Role, Permission, EmailConfig, etc.). Token
// persistence lives in [github.com/nikoidev/usuarios-go/tokenstore]; the
// HTTP layer lives in [github.com/nikoidev/usuarios-go/transport]. Neither
// subpackage imports this one.
//
// # What this package must NOT do
//
//   - Issue or verify tokens. Tokens are opaque credentials minted by the
//     backend; the only claim this package reads is the unverified expiry,
//     and only to time proactive renewal.
//   - Navigate or render. Session termination is reported through
//     [SessionListener]; what to do about it is the caller's business.
//   - Retry a replayed request. A request that fails authentication twice
//     is a terminal failure, never a third attempt.
//
// # Refresh contract
//
// At most one refresh call is in flight at any time. Concurrent callers
// that hit an expired access token are queued and released together with
// the refreshed token; a failed refresh ends the session for all of them.
package usuarios
