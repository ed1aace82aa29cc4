package auth

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
)

var _ Authenticator = &AuthService{}

// AuthService is the sole mutator of the session. It mediates between UI
// actions and the credential broker, persists successful state changes,
// and absorbs every session-store failure: persistence problems degrade to
// the unauthenticated state instead of surfacing to the user.
type AuthService struct {
	session *Session
	store   SessionStore
	broker  CredentialBroker
	logger  Logger
}

func NewAuthService(broker CredentialBroker, store SessionStore) *AuthService {
	return &AuthService{
		session: NewSession(),
		store:   store,
		broker:  broker,
		logger:  defLogger{},
	}
}

func (s *AuthService) WithLogger(logger Logger) *AuthService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Session exposes the shared state for read-only consumers such as the
// route guard.
func (s *AuthService) Session() *Session {
	return s.session
}

// Initialize restores a previously persisted session. It runs once at
// process start and never fails visibly: any load error degrades to the
// unauthenticated state.
func (s *AuthService) Initialize(ctx context.Context) {
	seq := s.session.begin()
	defer s.session.end(seq)

	identity, token, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("session restore failed, starting unauthenticated", "error", err)
		s.session.apply(seq, nil, "")
		return
	}

	if identity == nil {
		s.session.apply(seq, nil, "")
		return
	}

	s.logger.Debug("session restored", "email", identity.Email, "role", identity.Role)
	s.session.apply(seq, identity, token)
}

// Login exchanges credentials through the broker and, on success, commits
// and persists the new identity. The loading flag is raised for the whole
// call and guaranteed to reset on every exit path. If a newer operation
// settled first, the result is discarded silently.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Identity, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	seq := s.session.begin()
	defer s.session.end(seq)

	identity, token, err := s.broker.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Info("login rejected", "email", email, "error", err)
		return nil, err
	}

	if s.session.apply(seq, identity, token) {
		s.persist(ctx, identity, token)
	} else {
		s.logger.Debug("stale login result discarded", "email", email)
	}

	return identity, nil
}

// Register submits the role-specific payload and on success behaves
// exactly like Login. Payload content is validated by the form layer, not
// here.
func (s *AuthService) Register(ctx context.Context, role Role, payload RegistrationPayload) (*Identity, error) {
	if !IsValidRole(role) {
		return nil, RegistrationError("Unsupported account role")
	}

	seq := s.session.begin()
	defer s.session.end(seq)

	identity, token, err := s.broker.Register(ctx, role, payload)
	if err != nil {
		s.logger.Info("registration rejected", "role", role, "error", err)
		return nil, err
	}

	if s.session.apply(seq, identity, token) {
		s.persist(ctx, identity, token)
	} else {
		s.logger.Debug("stale registration result discarded", "role", role)
	}

	return identity, nil
}

// Logout unconditionally clears the session and the persisted copy. It
// never fails and is safe to call any number of times.
func (s *AuthService) Logout(ctx context.Context) {
	s.session.reset()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("failed to clear persisted session", "error", err)
	}
}

// IsAuthenticated is true iff the session holds an identity and a token
func (s *AuthService) IsAuthenticated() bool {
	return s.session.State().Authenticated()
}

// Role returns the current identity's role, or false when unauthenticated
func (s *AuthService) Role() (Role, bool) {
	snap := s.session.State()
	if !snap.Authenticated() {
		return "", false
	}
	return snap.Identity.Role, true
}

// Identity returns the current identity, or nil when unauthenticated
func (s *AuthService) Identity() *Identity {
	return s.session.Identity()
}

// Token returns the current session token for outbound authorized calls
func (s *AuthService) Token() string {
	return s.session.Token()
}

// Loading reports whether an auth operation is in flight
func (s *AuthService) Loading() bool {
	return s.session.Loading()
}

// Watch subscribes fn to session changes; it returns an unsubscribe func
func (s *AuthService) Watch(fn Subscriber) func() {
	return s.session.Subscribe(fn)
}

func (s *AuthService) persist(ctx context.Context, identity *Identity, token string) {
	if err := s.store.Save(ctx, identity, token); err != nil {
		s.logger.Error("failed to persist session", "error", err)
	}
}

func validateCredentials(email, password string) error {
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}.Filter()
	if err != nil {
		return ErrEmptyCredentials
	}
	return nil
}
