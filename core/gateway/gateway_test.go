package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TamilFM/model"
)

const anonKey = "anon-key"

func TestExchangeCredentials_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		require.Equal(t, anonKey, r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.com", body["email"])
		require.Equal(t, "secret1", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"user":         map[string]string{"id": "u-1", "email": "a@b.com"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, anonKey, nil)
	cred, err := c.ExchangeCredentials(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", cred.AccessToken)
	assert.Equal(t, model.Identity{ID: "u-1", Email: "a@b.com"}, cred.Identity)
}

func TestExchangeCredentials_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, anonKey, nil)
	_, err := c.ExchangeCredentials(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAuth)
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestExchangeCredentials_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse the connection

	c := NewClient(srv.URL, anonKey, nil)
	_, err := c.ExchangeCredentials(context.Background(), "a@b.com", "secret1")
	assert.ErrorIs(t, err, model.ErrNetwork)
}

func TestCreateAccount_DuplicateIsAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/signup", r.URL.Path)
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, anonKey, nil)
	_, err := c.CreateAccount(context.Background(), "a@b.com", "secret1")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAuth)
	assert.Contains(t, err.Error(), "already registered")
}

func TestSelectOne_FiltersAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/profiles", r.URL.Path)
		require.Equal(t, "eq.u-1", r.URL.Query().Get("id"))
		require.Equal(t, "*", r.URL.Query().Get("select"))
		require.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		io.WriteString(w, `[{"id":"u-1","full_name":"A B"}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, anonKey, nil)
	var row struct {
		ID       string `json:"id"`
		FullName string `json:"full_name"`
	}
	err := c.SelectOne(context.Background(), "user-token",
		Query{Table: "profiles", FilterColumn: "id", FilterValue: "u-1"}, &row)
	require.NoError(t, err)
	assert.Equal(t, "A B", row.FullName)
}

func TestSelectOne_EmptyResultIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, anonKey, nil)
	var row map[string]any
	err := c.SelectOne(context.Background(), "", Query{Table: "profiles", FilterColumn: "id", FilterValue: "x"}, &row)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSelectList_OrderAndEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		// Without a user token the anon key doubles as the bearer.
		require.Equal(t, "Bearer "+anonKey, r.Header.Get("Authorization"))
		io.WriteString(w, `[{"title":"Uyire"},{"title":"Vaseegara"}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, anonKey, nil)
	var rows []struct {
		Title string `json:"title"`
	}
	err := c.SelectList(context.Background(), "", Query{Table: "songs", Order: "created_at.desc"}, &rows)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Uyire", rows[0].Title)
}

func TestUpdateRow_SendsOnlyPatchFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "eq.u-1", r.URL.Query().Get("id"))

		var patch map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		assert.Contains(t, patch, "full_name")
		assert.NotContains(t, patch, "email")
		assert.NotContains(t, patch, "created_at")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, anonKey, nil)
	err := c.UpdateRow(context.Background(), "tok", "profiles", "id", "u-1",
		map[string]string{"full_name": "New Name", "updated_at": "2026-01-01T00:00:00Z"})
	require.NoError(t, err)
}

func TestUploadObject_PathAndContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/storage/v1/object/songs/public/x.mp3", r.URL.Path)
		require.Equal(t, "audio/mpeg", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, "audio-bytes", string(data))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, anonKey, nil)
	err := c.UploadObject(context.Background(), "tok", "songs", "public/x.mp3", "audio/mpeg",
		strings.NewReader("audio-bytes"))
	require.NoError(t, err)
}

func TestUploadObject_DuplicateFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "The resource already exists"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, anonKey, nil)
	err := c.UploadObject(context.Background(), "tok", "songs", "public/x.mp3", "audio/mpeg",
		strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestPublicURL(t *testing.T) {
	c := NewClient("https://backend.example/", anonKey, nil)
	assert.Equal(t,
		"https://backend.example/storage/v1/object/public/songs/public/x.mp3",
		c.PublicURL("songs", "public/x.mp3"))
	assert.Equal(t,
		"https://backend.example/storage/v1/object/public/song-images/public/y.jpg",
		c.PublicURL("song-images", "/public/y.jpg"))
}
