package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// DefaultDemoLatency approximates a round trip to the portal API so the
// offline mode exercises the same loading states the network mode does.
const DefaultDemoLatency = 400 * time.Millisecond

// DemoAccount seeds the offline credential table
type DemoAccount struct {
	Email    string
	Password string
	Identity Identity
}

// DefaultDemoAccounts returns the canonical demo logins shown on the
// portal sign-in pages.
func DefaultDemoAccounts() []DemoAccount {
	return []DemoAccount{
		{
			Email:    "employer@example.com",
			Password: "employer123",
			Identity: Identity{
				Role:  RoleEmployer,
				Name:  "Katlyst Demo Employer",
				Email: "employer@example.com",
				Profile: map[string]any{
					"company_name": "Katlyst Talent Co.",
					"website":      "https://katlyst.example.com",
				},
			},
		},
		{
			Email:    "jobseeker@example.com",
			Password: "Password123",
			Identity: Identity{
				Role:  RoleJobseeker,
				Name:  "Katlyst Demo Seeker",
				Email: "jobseeker@example.com",
				Profile: map[string]any{
					"headline": "Frontend Developer",
				},
			},
		},
	}
}

type demoRecord struct {
	passwordHash string
	identity     Identity
}

var _ CredentialBroker = &DemoBroker{}

// DemoBroker is the offline deployment mode: a fixed credential table with
// emulated network latency and locally minted tokens. Registration inserts
// into the table for the life of the process.
type DemoBroker struct {
	mu       sync.Mutex
	accounts map[string]demoRecord
	minter   *TokenMinter
	latency  time.Duration
	logger   Logger
}

// NewDemoBroker seeds the credential table; with no accounts given it
// loads DefaultDemoAccounts.
func NewDemoBroker(signingKey string, accounts ...DemoAccount) *DemoBroker {
	if len(accounts) == 0 {
		accounts = DefaultDemoAccounts()
	}

	b := &DemoBroker{
		accounts: make(map[string]demoRecord, len(accounts)),
		minter:   NewTokenMinter([]byte(signingKey), "jobportal-demo", 24),
		latency:  DefaultDemoLatency,
		logger:   defLogger{},
	}

	for _, account := range accounts {
		identity := account.Identity
		if identity.ID == "" {
			identity.ID = stableID(account.Email)
		}
		if identity.Email == "" {
			identity.Email = account.Email
		}

		// Seeding cost stays low; these are throwaway demo credentials.
		hash, err := HashPasswordCost(account.Password, 4)
		if err != nil {
			b.logger.Warn("skipping demo account with unusable password", "email", account.Email, "error", err)
			continue
		}

		b.accounts[normalizeEmail(account.Email)] = demoRecord{
			passwordHash: hash,
			identity:     identity,
		}
	}

	return b
}

func (b *DemoBroker) WithLogger(logger Logger) *DemoBroker {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithLatency overrides the emulated round-trip delay; zero disables it
func (b *DemoBroker) WithLatency(latency time.Duration) *DemoBroker {
	b.latency = latency
	return b
}

func (b *DemoBroker) Authenticate(ctx context.Context, email, password string) (*Identity, string, error) {
	if err := b.wait(ctx); err != nil {
		return nil, "", WrapAuthenticationError(err, "")
	}

	b.mu.Lock()
	record, ok := b.accounts[normalizeEmail(email)]
	b.mu.Unlock()

	if !ok {
		return nil, "", AuthenticationError("")
	}

	if err := ComparePasswordAndHash(password, record.passwordHash); err != nil {
		return nil, "", AuthenticationError("")
	}

	identity := record.identity.Clone()
	token, err := b.minter.Mint(identity)
	if err != nil {
		return nil, "", WrapAuthenticationError(err, "")
	}

	return identity, token, nil
}

func (b *DemoBroker) Register(ctx context.Context, role Role, payload RegistrationPayload) (*Identity, string, error) {
	if err := b.wait(ctx); err != nil {
		return nil, "", WrapRegistrationError(err, "")
	}

	email := normalizeEmail(payload.String("email"))
	password := payload.String("password")
	if email == "" || password == "" {
		return nil, "", RegistrationError("Email and password are required")
	}

	hash, err := HashPasswordCost(password, 4)
	if err != nil {
		return nil, "", WrapRegistrationError(err, "")
	}

	identity := identityFromPayload(role, email, payload)

	b.mu.Lock()
	if _, exists := b.accounts[email]; exists {
		b.mu.Unlock()
		return nil, "", RegistrationError("An account with this email already exists")
	}
	b.accounts[email] = demoRecord{
		passwordHash: hash,
		identity:     *identity,
	}
	b.mu.Unlock()

	token, err := b.minter.Mint(identity)
	if err != nil {
		return nil, "", WrapRegistrationError(err, "")
	}

	b.logger.Info("demo account registered", "email", email, "role", role)

	return identity.Clone(), token, nil
}

func (b *DemoBroker) wait(ctx context.Context) error {
	if b.latency <= 0 {
		return nil
	}

	timer := time.NewTimer(b.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// identityFromPayload builds the new principal; credential fields never
// land in the profile payload.
func identityFromPayload(role Role, email string, payload RegistrationPayload) *Identity {
	profile := payload.Clone()
	delete(profile, "password")
	delete(profile, "confirm_password")
	delete(profile, "email")

	name := payload.String("company_name")
	if name == "" {
		name = strings.TrimSpace(payload.String("first_name") + " " + payload.String("last_name"))
	}
	if name == "" {
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
	}

	return &Identity{
		ID:      stableID(email),
		Role:    role,
		Name:    name,
		Email:   email,
		Profile: profile,
	}
}

// stableID derives a deterministic ID from the email so a demo account
// keeps its identity across restarts.
func stableID(email string) string {
	if id, err := hashid.NewUUID(email); err == nil {
		return id.String()
	}
	return uuid.New().String()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
