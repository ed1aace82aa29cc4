// Package auth is the access-control core of the job portal: session
// persistence, the auth service, and role-based route authorization.
//
// Session state:
//   - Session holds at most one Identity plus a loading flag. It is owned
//     and mutated exclusively by AuthService; every other component reads it
//     through queries (IsAuthenticated, Role) or subscribes for change
//     notification. Mutating operations stamp a sequence number so that the
//     last settled operation wins and stale results are discarded.
//
// Deployment modes:
//   - CredentialBroker abstracts the backend. APIBroker talks to the portal
//     REST API; DemoBroker serves a fixed credential table with locally
//     minted tokens so the portal runs without a backend. The mode is
//     selected once at startup from configuration.
//
// Route authorization:
//   - Guard evaluates a static RouteTable against the current session and
//     decides whether a destination renders or redirects, preserving the
//     originally requested path so a successful login can resume it. The
//     fiber middleware in this package binds those decisions to HTTP.
package auth
