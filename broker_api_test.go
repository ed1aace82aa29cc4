package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	auth "github.com/Rajesh-Alachandra/jobportal-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIBrokerAuthenticate(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": {
				"user": {"id": "u-1", "role": "employer", "name": "Acme Inc", "email": "hr@acme.test"},
				"token": "server-token"
			}
		}`))
	}))
	defer server.Close()

	broker := auth.NewAPIBroker(server.URL + "/")

	identity, token, err := broker.Authenticate(context.Background(), "hr@acme.test", "secret")
	require.NoError(t, err)
	require.NotNil(t, identity)

	assert.Equal(t, "/auth/login", gotPath)
	assert.Equal(t, "hr@acme.test", gotBody["email"])
	assert.Equal(t, "secret", gotBody["password"])
	assert.Equal(t, "u-1", identity.ID)
	assert.Equal(t, auth.RoleEmployer, identity.Role)
	assert.Equal(t, "server-token", token)
}

func TestAPIBrokerAuthenticateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "message": "Invalid email or password"}`))
	}))
	defer server.Close()

	broker := auth.NewAPIBroker(server.URL)

	identity, token, err := broker.Authenticate(context.Background(), "hr@acme.test", "wrong")
	require.Error(t, err)
	assert.Nil(t, identity)
	assert.Empty(t, token)
	assert.True(t, auth.IsAuthenticationError(err))
	assert.Equal(t, "Invalid email or password", auth.ErrorMessage(err))
}

func TestAPIBrokerAuthenticateFailureWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false}`))
	}))
	defer server.Close()

	broker := auth.NewAPIBroker(server.URL)

	_, _, err := broker.Authenticate(context.Background(), "hr@acme.test", "secret")
	require.Error(t, err)
	assert.True(t, auth.IsAuthenticationError(err))
	assert.Equal(t, "Login failed", auth.ErrorMessage(err))
}

func TestAPIBrokerAuthenticateMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer server.Close()

	broker := auth.NewAPIBroker(server.URL)

	_, _, err := broker.Authenticate(context.Background(), "hr@acme.test", "secret")
	require.Error(t, err)
	assert.True(t, auth.IsAuthenticationError(err))
	assert.Equal(t, "Login failed", auth.ErrorMessage(err))
}

func TestAPIBrokerAuthenticateMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": {"user": {"id": "u-1", "role": "employer"}}}`))
	}))
	defer server.Close()

	broker := auth.NewAPIBroker(server.URL)

	_, _, err := broker.Authenticate(context.Background(), "hr@acme.test", "secret")
	require.Error(t, err)
	assert.True(t, auth.IsAuthenticationError(err))
}

func TestAPIBrokerAuthenticateUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	broker := auth.NewAPIBroker(server.URL)

	_, _, err := broker.Authenticate(context.Background(), "hr@acme.test", "secret")
	require.Error(t, err)
	assert.True(t, auth.IsAuthenticationError(err))
	assert.Equal(t, "Login failed", auth.ErrorMessage(err))
}

func TestAPIBrokerRegisterEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		role     auth.Role
		expected string
	}{
		{
			name:     "employer",
			role:     auth.RoleEmployer,
			expected: "/auth/register/employer",
		},
		{
			name:     "jobseeker",
			role:     auth.RoleJobseeker,
			expected: "/auth/register/jobseeker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"success": true,
					"data": {
						"user": {"id": "u-9", "role": "` + tt.role + `", "email": "new@example.com"},
						"token": "fresh-token"
					}
				}`))
			}))
			defer server.Close()

			broker := auth.NewAPIBroker(server.URL)

			identity, token, err := broker.Register(context.Background(), tt.role, auth.RegistrationPayload{
				"email":    "new@example.com",
				"password": "Password123",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, gotPath)
			assert.Equal(t, tt.role, identity.Role)
			assert.Equal(t, "fresh-token", token)
		})
	}
}

func TestAPIBrokerRegisterRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success": false, "message": "An account with this email already exists"}`))
	}))
	defer server.Close()

	broker := auth.NewAPIBroker(server.URL)

	_, _, err := broker.Register(context.Background(), auth.RoleEmployer, auth.RegistrationPayload{
		"email":    "taken@example.com",
		"password": "Password123",
	})
	require.Error(t, err)
	assert.True(t, auth.IsRegistrationError(err))
	assert.Equal(t, "An account with this email already exists", auth.ErrorMessage(err))
}

func TestBearerTransport(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	token := "session-token"
	client := &http.Client{
		Transport: auth.NewBearerTransport(nil, func() string { return token }),
	}

	res, err := client.Get(server.URL)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "Bearer session-token", gotAuth)

	// The token is read per request, so it tracks the live session.
	token = ""
	res, err = client.Get(server.URL)
	require.NoError(t, err)
	res.Body.Close()
	assert.Empty(t, gotAuth)
}
