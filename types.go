package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SessionStore is durable storage for the current identity and token,
// scoped to one browsing profile. Load treats corrupt or partially written
// data as absent and never fails because of it; Save is atomic from the
// caller's perspective; Clear is idempotent.
type SessionStore interface {
	Load(ctx context.Context) (*Identity, string, error)
	Save(ctx context.Context, identity *Identity, token string) error
	Clear(ctx context.Context) error
}

// CredentialBroker performs credential exchange and registration against a
// backend. APIBroker and DemoBroker are the two deployment modes.
type CredentialBroker interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, string, error)
	Register(ctx context.Context, role Role, payload RegistrationPayload) (*Identity, string, error)
}

// Authenticator is the surface the rest of the portal consumes; it is the
// only way any other component reads or changes session state.
type Authenticator interface {
	Initialize(ctx context.Context)
	Login(ctx context.Context, email, password string) (*Identity, error)
	Register(ctx context.Context, role Role, payload RegistrationPayload) (*Identity, error)
	Logout(ctx context.Context)
	IsAuthenticated() bool
	Role() (Role, bool)
}

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }

func (d defLogger) print(level, msg string, args ...any) {
	out := "[" + level + "] AUTH " + msg
	for i := 0; i+1 < len(args); i += 2 {
		out += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	fmt.Println(out)
}
