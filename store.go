package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// storedState is the on-disk layout: the same two values the web client
// kept in localStorage, serialized together.
type storedState struct {
	User  *Identity `json:"authUser,omitempty"`
	Token string    `json:"authToken,omitempty"`
}

var _ SessionStore = &FileStore{}

// FileStore persists the session as a JSON file per browsing profile.
// Writes go through a temp file plus rename so a reader never observes a
// half-written value; anything unreadable loads as absent and is cleared.
type FileStore struct {
	path   string
	logger Logger
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		logger: defLogger{},
	}
}

func (f *FileStore) WithLogger(logger Logger) *FileStore {
	if logger != nil {
		f.logger = logger
	}
	return f
}

func (f *FileStore) Load(ctx context.Context) (*Identity, string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		f.logger.Warn("session file unreadable, treating as absent", "path", f.path, "error", err)
		return nil, "", nil
	}

	var state storedState
	if err := json.Unmarshal(raw, &state); err != nil {
		f.logger.Warn("session file corrupt, clearing", "path", f.path, "error", err)
		_ = f.Clear(ctx)
		return nil, "", nil
	}

	// A record without a restorable identity is partial; never hand back
	// half a session.
	if state.User == nil || state.User.ID == "" || !IsValidRole(state.User.Role) {
		if state.User != nil || state.Token != "" {
			f.logger.Warn("session file incomplete, clearing", "path", f.path)
			_ = f.Clear(ctx)
		}
		return nil, "", nil
	}

	return state.User, state.Token, nil
}

func (f *FileStore) Save(ctx context.Context, identity *Identity, token string) error {
	raw, err := json.Marshal(storedState{User: identity, Token: token})
	if err != nil {
		return cloneWithMessage(ErrSessionPersistence, "failed to serialize session")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return persistenceError("failed to create session directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return persistenceError("failed to stage session file", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return persistenceError("failed to write session file", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return persistenceError("failed to flush session file", err)
	}

	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return persistenceError("failed to restrict session file", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return persistenceError("failed to replace session file", err)
	}

	return nil
}

func (f *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return persistenceError("failed to remove session file", err)
	}
	return nil
}

func persistenceError(message string, err error) error {
	clone := cloneWithMessage(ErrSessionPersistence, message)
	clone.Source = err
	return clone
}
