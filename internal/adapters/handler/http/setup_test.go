package http_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/election/internal/adapters/faceauth"
	handler "github.com/vncsmyrnk/election/internal/adapters/handler/http"
	"github.com/vncsmyrnk/election/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/services"
	"github.com/vncsmyrnk/election/internal/platform/metrics"
)

const adminEmail = "admin@example.com"

type mockVerifier struct{}

func (mockVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	if token == "valid_token" {
		return &ports.TokenPayload{Email: adminEmail, Name: "Admin"}, nil
	}
	return nil, assert.AnError
}

type testApp struct {
	Server   *httptest.Server
	Client   *http.Client
	Store    *memory.Store
	Registry *prometheus.Registry
}

// newFaceService answers like the face comparison service: identical images match.
func newFaceService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Image1 string `json:"image1"`
			Image2 string `json:"image2"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		similarity := 0.1
		if req.Image1 == req.Image2 {
			similarity = 0.97
		}
		_ = json.NewEncoder(w).Encode(map[string]float64{"similarity_index": similarity})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.NewStore()
	images, err := faceauth.NewDirImageStore(t.TempDir())
	require.NoError(t, err)
	face := faceauth.NewClient(newFaceService(t).URL, faceauth.DefaultThreshold, images)

	reg := prometheus.NewRegistry()
	opts := []services.Option{
		services.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		services.WithMetrics(metrics.New(reg)),
	}

	authSvc := services.NewAuthService(store.Admins(), store.Citizens(), mockVerifier{}, face, services.AuthConfig{
		JWTSecret:   []byte("test-secret"),
		AdminEmails: []string{adminEmail},
	}, opts...)
	keyer := services.NewVoterKeyer([]byte("voter-secret"))

	electionSvc := services.NewElectionService(store.Elections(), store.Registry(), store.Candidacies(), store.Districts(), store.Locker(), opts...)
	registrySvc := services.NewRegistryService(store.Elections(), store.Registry(), store.Districts(), store.Locker(), opts...)
	candidacySvc := services.NewCandidacyService(store.Registry(), store.Candidacies(), store.Parties(), store.Citizens(), store.Locker(), opts...)
	partySvc := services.NewPartyService(store.Parties(), store.Citizens(), opts...)
	citizenSvc := services.NewCitizenService(store.Citizens(), store.Districts(), images, opts...)
	voteSvc := services.NewVoteService(store.Elections(), store.Registry(), store.Candidacies(), store.Votes(), store.Citizens(), store.Parties(), keyer, opts...)
	tallySvc := services.NewTallyService(store.Elections(), store.Registry(), store.Candidacies(), store.Votes(), nil, opts...)

	router := handler.NewHandler(authSvc, handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, "https://example.com/admin", "", http.SameSiteLaxMode, 15*time.Minute, 5*time.Minute),
		Session:     handler.NewSessionHandler(citizenSvc),
		Elections:   handler.NewElectionHandler(electionSvc),
		Registry:    handler.NewRegistryHandler(registrySvc),
		Candidacies: handler.NewCandidacyHandler(candidacySvc),
		Parties:     handler.NewPartyHandler(partySvc),
		Citizens:    handler.NewCitizenHandler(citizenSvc),
		Votes:       handler.NewVoteHandler(voteSvc),
		Results:     handler.NewResultsHandler(tallySvc),
	}, reg)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		Server: server,
		Client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Store:    store,
		Registry: reg,
	}
}

// do sends body as JSON with token as a bearer credential and decodes the
// response into out when out is not nil.
func (a *testApp) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, a.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()

	form := url.Values{"credential": {"valid_token"}}
	resp, err := a.Client.Post(a.Server.URL+"/auth/google/callback", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "https://example.com/admin", resp.Header.Get("Location"))

	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			assert.True(t, c.HttpOnly)
			return c.Value
		}
	}
	t.Fatal("access_token cookie not set")
	return ""
}

func (a *testApp) voterToken(t *testing.T, nid string, face []byte) string {
	t.Helper()
	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	status := a.do(t, http.MethodPost, "/api/voter/authenticate", "", map[string]string{
		"nid":   nid,
		"image": "data:image/png;base64," + base64.StdEncoding.EncodeToString(face),
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 300, resp.ExpiresIn)
	return resp.AccessToken
}

func (a *testApp) district(t *testing.T, name string) domain.District {
	t.Helper()
	d := domain.District{ID: uuid.New(), Name: name}
	require.NoError(t, a.Store.Districts().Save(context.Background(), &d))
	return d
}

func (a *testApp) registerCitizen(t *testing.T, token, nid, name string, district domain.District, face []byte) domain.Citizen {
	t.Helper()
	var citizen domain.Citizen
	status := a.do(t, http.MethodPost, "/api/admin/citizens", token, map[string]any{
		"nid":         nid,
		"name":        name,
		"district_id": district.ID,
		"face_image":  base64.StdEncoding.EncodeToString(face),
	}, &citizen)
	require.Equal(t, http.StatusCreated, status)
	return citizen
}
