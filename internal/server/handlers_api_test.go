package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/spotify"
)

// --- handleGetUser tests ---

func TestHandleGetUser_Success(t *testing.T) {
	user := testUser()
	app := &mockAppService{
		getUserFn: func(_ context.Context, userID uuid.UUID) (*domain.User, error) {
			require.Equal(t, user.ID, userID)
			return user, nil
		},
	}
	srv := newTestServer(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set("userID", user.ID)

	err := srv.handleGetUser(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, user.ID.String(), body["id"])
	assert.Equal(t, user.DisplayName, body["displayName"])
	assert.Equal(t, user.Email, body["email"])

	// Tokens must never appear in the response, under any key.
	assert.NotContains(t, rec.Body.String(), user.AccessToken)
	assert.NotContains(t, rec.Body.String(), user.RefreshToken)
}

func TestHandleGetUser_NotFound(t *testing.T) {
	app := &mockAppService{
		getUserFn: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	srv := newTestServer(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set("userID", uuid.New())

	err := srv.handleGetUser(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- handleCreateRoast tests ---

func TestHandleCreateRoast_Success(t *testing.T) {
	user := testUser()
	roast := testRoast(user.ID)
	app := &mockAppService{
		getUserFn: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
			return user, nil
		},
		generateRoastFn: func(_ context.Context, gotUserID uuid.UUID) (*domain.Roast, error) {
			require.Equal(t, user.ID, gotUserID)
			return roast, nil
		},
	}
	srv := newTestServer(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/roast", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set("userID", user.ID)

	err := srv.handleCreateRoast(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Roast    domain.Roast         `json:"roast"`
		Analysis domain.MusicAnalysis `json:"analysis"`
		User     struct {
			ID           string `json:"id"`
			DisplayName  string `json:"displayName"`
			ProfileImage string `json:"profileImage"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, roast.ID, body.Roast.ID)
	assert.Equal(t, roast.Headline, body.Roast.Headline)
	assert.Equal(t, domain.CategorySadSongs, body.Roast.Category)
	assert.Equal(t, 72, body.Analysis.SadSongsPercentage)
	assert.Equal(t, user.ID.String(), body.User.ID)
	assert.Equal(t, user.DisplayName, body.User.DisplayName)
	assert.NotContains(t, rec.Body.String(), user.AccessToken)
}

func TestHandleCreateRoast_UserMissing(t *testing.T) {
	app := &mockAppService{
		getUserFn: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	srv := newTestServer(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/roast", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set("userID", uuid.New())

	err := srv.handleCreateRoast(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCreateRoast_TokenRevoked(t *testing.T) {
	app := &mockAppService{
		getUserFn: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
			return testUser(), nil
		},
		generateRoastFn: func(_ context.Context, _ uuid.UUID) (*domain.Roast, error) {
			return nil, &spotify.TokenRefreshError{Revoked: true, Err: assert.AnError}
		},
	}
	srv := newTestServer(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/roast", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set("userID", uuid.New())

	err := srv.handleCreateRoast(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "log in again")
}

func TestHandleCreateRoast_UpstreamFailure(t *testing.T) {
	app := &mockAppService{
		getUserFn: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
			return testUser(), nil
		},
		generateRoastFn: func(_ context.Context, _ uuid.UUID) (*domain.Roast, error) {
			return nil, &spotify.UpstreamFetchError{Operation: "top_tracks", StatusCode: 503}
		},
	}
	srv := newTestServer(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/roast", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set("userID", uuid.New())

	err := srv.handleCreateRoast(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Spotify data")
}

func TestHandleCreateRoast_TransientRefreshFailure(t *testing.T) {
	app := &mockAppService{
		getUserFn: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
			return testUser(), nil
		},
		generateRoastFn: func(_ context.Context, _ uuid.UUID) (*domain.Roast, error) {
			return nil, &spotify.TokenRefreshError{Revoked: false, Err: assert.AnError}
		},
	}
	srv := newTestServer(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/roast", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set("userID", uuid.New())

	err := srv.handleCreateRoast(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleCreateRoast_InternalError(t *testing.T) {
	app := &mockAppService{
		getUserFn: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
			return testUser(), nil
		},
		generateRoastFn: func(_ context.Context, _ uuid.UUID) (*domain.Roast, error) {
			return nil, assert.AnError
		},
	}
	srv := newTestServer(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/roast", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set("userID", uuid.New())

	err := srv.handleCreateRoast(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// --- handleGetRoast tests ---

func TestHandleGetRoast_Success(t *testing.T) {
	user := testUser()
	roast := testRoast(user.ID)
	app := &mockAppService{
		getRoastFn: func(_ context.Context, roastID uuid.UUID) (*domain.Roast, error) {
			require.Equal(t, roast.ID, roastID)
			return roast, nil
		},
		getUserFn: func(_ context.Context, userID uuid.UUID) (*domain.User, error) {
			require.Equal(t, user.ID, userID)
			return user, nil
		},
	}
	srv := newTestServer(t, app)

	// Routed request: the share link needs no session.
	req := httptest.NewRequest(http.MethodGet, "/api/roast/"+roast.ID.String(), nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Roast domain.Roast `json:"roast"`
		User  *struct {
			DisplayName  string `json:"displayName"`
			ProfileImage string `json:"profileImage"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, roast.Headline, body.Roast.Headline)
	assert.Equal(t, roast.MusicData.TopTracks[0].Name, body.Roast.MusicData.TopTracks[0].Name)
	require.NotNil(t, body.User)
	assert.Equal(t, user.DisplayName, body.User.DisplayName)
}

func TestHandleGetRoast_OwnerGone(t *testing.T) {
	roast := testRoast(uuid.New())
	app := &mockAppService{
		getRoastFn: func(_ context.Context, _ uuid.UUID) (*domain.Roast, error) {
			return roast, nil
		},
		getUserFn: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	srv := newTestServer(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/roast/"+roast.ID.String(), nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "null", string(body["user"]))
}

func TestHandleGetRoast_MalformedID(t *testing.T) {
	// A malformed id looks the same as an unknown one from the outside.
	srv := newTestServer(t, &mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/api/roast/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Roast not found")
}

func TestHandleGetRoast_NotFound(t *testing.T) {
	app := &mockAppService{
		getRoastFn: func(_ context.Context, _ uuid.UUID) (*domain.Roast, error) {
			return nil, domain.ErrRoastNotFound
		},
	}
	srv := newTestServer(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/roast/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Routed auth check: the session-bound endpoints reject anonymous requests.
func TestProtectedRoutes_RequireSession(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	for _, route := range []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/user"},
		{http.MethodPost, "/api/roast"},
	} {
		req := httptest.NewRequest(route.method, route.target, nil)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		assert.Equalf(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.target)
	}
}
