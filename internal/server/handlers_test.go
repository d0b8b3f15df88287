package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/config"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
)

// --- Mock implementations ---

type mockAppService struct {
	handleCallbackFn func(ctx context.Context, code string) (*domain.User, error)
	getUserFn        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	getRoastFn       func(ctx context.Context, roastID uuid.UUID) (*domain.Roast, error)
	generateRoastFn  func(ctx context.Context, userID uuid.UUID) (*domain.Roast, error)
}

func (m *mockAppService) HandleCallback(ctx context.Context, code string) (*domain.User, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAppService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, userID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAppService) GetRoast(ctx context.Context, roastID uuid.UUID) (*domain.Roast, error) {
	if m.getRoastFn != nil {
		return m.getRoastFn(ctx, roastID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAppService) GenerateRoast(ctx context.Context, userID uuid.UUID) (*domain.Roast, error) {
	if m.generateRoastFn != nil {
		return m.generateRoastFn(ctx, userID)
	}
	return nil, fmt.Errorf("not implemented")
}

type stubAuthURLBuilder struct {
	lastState string
}

func (b *stubAuthURLBuilder) AuthorizeURL(state string) string {
	b.lastState = state
	return "https://accounts.spotify.com/authorize?state=" + state
}

type mockHealthChecker struct {
	pingFn func(ctx context.Context) error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// --- Test helpers ---

func newTestServer(t *testing.T, app AppService, opts ...func(*Server)) *Server {
	t.Helper()

	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!!"))
	store.Options = &sessions.Options{
		Path:   "/",
		MaxAge: 3600,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       &config.Config{AppEnv: "test", Port: "8080"},
		app:          app,
		spotifyAuth:  &stubAuthURLBuilder{},
		sessionStore: store,
		postgres:     &mockHealthChecker{},
		redis:        &mockHealthChecker{},
		startTime:    time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()
	return srv
}

func withPostgresHealthCheck(pg postgresHealthChecker) func(*Server) {
	return func(s *Server) {
		s.postgres = pg
	}
}

func withRedisHealthCheck(redis redisHealthChecker) func(*Server) {
	return func(s *Server) {
		s.redis = redis
	}
}

// setSessionValue saves a session value against the recorder so the resulting
// cookie can be copied onto a follow-up request.
func setSessionValue(t *testing.T, srv *Server, req *http.Request, rec *httptest.ResponseRecorder, key string, value string) {
	t.Helper()
	session, err := srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	session.Values[key] = value
	require.NoError(t, session.Save(req, rec))
}

// requestWithSession builds a request carrying a session cookie with the given
// values baked in.
func requestWithSession(t *testing.T, srv *Server, method, target string, values map[string]string) *http.Request {
	t.Helper()

	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	seedRec := httptest.NewRecorder()
	for key, value := range values {
		setSessionValue(t, srv, seed, seedRec, key, value)
	}

	req := httptest.NewRequest(method, target, nil)
	for _, cookie := range seedRec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return req
}

func testUser() *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		SpotifyID:    "spotify-user-1",
		DisplayName:  "Test Listener",
		Email:        "listener@example.com",
		ProfileImage: "https://example.com/avatar.jpg",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenExpiry:  time.Now().Add(time.Hour),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func testRoast(userID uuid.UUID) *domain.Roast {
	return &domain.Roast{
		ID:          uuid.New(),
		UserID:      userID,
		Headline:    "Certified Sad Playlist Owner",
		Description: "Your playlists read like a breakup diary.",
		Category:    domain.CategorySadSongs,
		MusicData: domain.RoastMusicData{
			TopTracks: []domain.Track{
				{ID: "track-1", Name: "Crying In The Rain", Artists: []domain.TrackArtist{{ID: "artist-1", Name: "Sad Band"}}},
			},
			TopArtists: []domain.Artist{
				{ID: "artist-1", Name: "Sad Band", Genres: []string{"sad indie"}},
			},
		},
		Analysis: domain.MusicAnalysis{
			SadSongsPercentage: 72,
			AvgTempo:           84,
			UniqueArtists:      12,
		},
		CreatedAt: time.Now(),
	}
}
