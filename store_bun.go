package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// sessionRecord is the persisted session row, one per browsing profile
type sessionRecord struct {
	bun.BaseModel `bun:"table:auth_sessions,alias:sess"`
	Profile       string     `bun:"profile,pk" json:"profile"`
	AuthUser      []byte     `bun:"auth_user" json:"auth_user,omitempty"`
	AuthToken     string     `bun:"auth_token" json:"auth_token,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

var _ SessionStore = &BunStore{}

// BunStore persists the session in a sqlite database through bun. The
// single-row upsert keeps Save atomic; a row that fails to decode is
// treated as absent and deleted.
type BunStore struct {
	db      *bun.DB
	profile string
	logger  Logger
}

// NewBunStore opens (or creates) the session database at dsn, keyed by the
// given browsing profile.
func NewBunStore(ctx context.Context, dsn, profile string) (*BunStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, persistenceError("failed to open session database", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*sessionRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		db.Close()
		return nil, persistenceError("failed to create session table", err)
	}

	return &BunStore{
		db:      db,
		profile: profile,
		logger:  defLogger{},
	}, nil
}

func (b *BunStore) WithLogger(logger Logger) *BunStore {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// DB exposes the underlying handle for maintenance and tests
func (b *BunStore) DB() *bun.DB {
	return b.db
}

func (b *BunStore) Close() error {
	return b.db.Close()
}

func (b *BunStore) Load(ctx context.Context) (*Identity, string, error) {
	rec := new(sessionRecord)
	err := b.db.NewSelect().
		Model(rec).
		Where("profile = ?", b.profile).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", persistenceError("failed to read session row", err)
	}

	if len(rec.AuthUser) == 0 {
		return nil, "", nil
	}

	identity := new(Identity)
	if err := json.Unmarshal(rec.AuthUser, identity); err != nil {
		b.logger.Warn("session row corrupt, clearing", "profile", b.profile, "error", err)
		_ = b.Clear(ctx)
		return nil, "", nil
	}

	if identity.ID == "" || !IsValidRole(identity.Role) {
		b.logger.Warn("session row incomplete, clearing", "profile", b.profile)
		_ = b.Clear(ctx)
		return nil, "", nil
	}

	return identity, rec.AuthToken, nil
}

func (b *BunStore) Save(ctx context.Context, identity *Identity, token string) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return persistenceError("failed to serialize session", err)
	}

	now := time.Now()
	rec := &sessionRecord{
		Profile:   b.profile,
		AuthUser:  raw,
		AuthToken: token,
		UpdatedAt: &now,
	}

	if _, err := b.db.NewInsert().
		Model(rec).
		On("CONFLICT (profile) DO UPDATE").
		Set("auth_user = EXCLUDED.auth_user").
		Set("auth_token = EXCLUDED.auth_token").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return persistenceError("failed to write session row", err)
	}

	return nil
}

func (b *BunStore) Clear(ctx context.Context) error {
	if _, err := b.db.NewDelete().
		Model((*sessionRecord)(nil)).
		Where("profile = ?", b.profile).
		Exec(ctx); err != nil {
		return persistenceError("failed to delete session row", err)
	}
	return nil
}
