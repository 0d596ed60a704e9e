package infra_platform_auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memHints struct {
	data map[string]string
}

func newMemHints() *memHints {
	return &memHints{data: make(map[string]string)}
}

func (m *memHints) Get(key string) (string, error) { return m.data[key], nil }

func (m *memHints) Set(key string, value string) error {
	m.data[key] = value
	return nil
}

func (m *memHints) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func signInServer(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSignIn(t *testing.T) {
	t.Run("successful sign-in establishes the session", func(t *testing.T) {
		srv := signInServer(t, http.StatusOK,
			`{"access_token":"jwt-token","user":{"id":"user-9"}}`)
		hints := newMemHints()
		client := New(srv.URL, "anon-key", hints)

		var notified []string
		client.OnAuthStateChange(func(userID string) { notified = append(notified, userID) })

		userID, err := client.SignIn(context.Background(), "a@b.c", "secret")
		require.NoError(t, err)
		assert.Equal(t, "user-9", userID)

		got, ok := client.UserID()
		assert.True(t, ok)
		assert.Equal(t, "user-9", got)
		assert.Equal(t, "jwt-token", client.AccessToken())
		assert.Equal(t, "user-9", client.SignedInHint())
		assert.Equal(t, []string{"user-9"}, notified)
	})

	t.Run("bad credentials leave the client signed out", func(t *testing.T) {
		srv := signInServer(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)
		client := New(srv.URL, "anon-key", newMemHints())

		_, err := client.SignIn(context.Background(), "a@b.c", "wrong")
		assert.ErrorIs(t, err, ErrSignInFailed)

		_, ok := client.UserID()
		assert.False(t, ok)
		assert.Empty(t, client.AccessToken())
	})

	t.Run("incomplete session payload is rejected", func(t *testing.T) {
		srv := signInServer(t, http.StatusOK, `{"access_token":"","user":{"id":""}}`)
		client := New(srv.URL, "anon-key", newMemHints())

		_, err := client.SignIn(context.Background(), "a@b.c", "secret")
		assert.ErrorIs(t, err, ErrSignInFailed)
	})
}

func TestSignOut(t *testing.T) {
	srv := signInServer(t, http.StatusOK,
		`{"access_token":"jwt-token","user":{"id":"user-9"}}`)
	hints := newMemHints()
	client := New(srv.URL, "anon-key", hints)

	_, err := client.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)

	var notified []string
	client.OnAuthStateChange(func(userID string) { notified = append(notified, userID) })

	client.SignOut()

	_, ok := client.UserID()
	assert.False(t, ok)
	assert.Empty(t, client.AccessToken())
	assert.Empty(t, client.SignedInHint())
	assert.Equal(t, []string{""}, notified)
}
