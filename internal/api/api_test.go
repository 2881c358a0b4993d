package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"
	"syncfit/connect-api/internal/repository/memrepo"
	"syncfit/connect-api/internal/service"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	store    *memrepo.Store
	auth     service.AuthService
	users    service.UserService
	packages *memrepo.Records[domain.Package, *domain.Package]
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memrepo.New()
	auth := service.NewAuthService("test-secret", time.Hour)
	users := service.NewUserService(store.Users())
	packages := memrepo.NewRecords[domain.Package](repository.OldestFirst)

	services := Services{
		Auth:        auth,
		Users:       users,
		Trainers:    service.NewTrainerService(store.Trainers(), store.Bookings()),
		Application: service.NewApplicationService(store.Applications(), store.Users(), 1000),
		Payments:    service.NewPaymentService(nil, store.Payments(), store.Trainers()),
		Community: service.NewCommunityService(service.CommunityRepos{
			Reviews:     memrepo.NewRecords[domain.Review](repository.OldestFirst),
			Subscribers: store.Subscribers(),
			Forums:      memrepo.NewRecords[domain.ForumPost](repository.NewestFirst),
			Classes:     memrepo.NewRecords[domain.Class](repository.OldestFirst),
			Packages:    packages,
		}),
		Gallery: service.NewGalleryService(memrepo.NewRecords[domain.Image](repository.NewestFirst), nil),
		Stats:   service.NewStatsService(store.Subscribers(), store.Bookings()),
	}

	router, err := NewRouter([]string{"*"}, nil)
	require.NoError(t, err)
	SetupRoutes(router, services, NewRateLimiter(100, 100))
	return &testServer{t: t, router: router, store: store, auth: auth, users: users, packages: packages}
}

// userWithRole stores a user with role and returns a token for them.
func (s *testServer) userWithRole(email string, role domain.Role) string {
	s.t.Helper()
	ctx := context.Background()
	id, _, err := s.users.EnsureUser(ctx, &domain.User{Name: email, Email: email})
	require.NoError(s.t, err)
	if role != domain.RoleMember {
		_, err = s.store.Users().SetRole(ctx, id, role)
		require.NoError(s.t, err)
	}
	return s.token(email)
}

func (s *testServer) token(email string) string {
	s.t.Helper()
	token, err := s.auth.IssueToken(domain.Identity{Email: email, Name: "Test " + email})
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLiveness(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SyncFit Connect server...", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestIssueToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/jwt", "", gin.H{"email": "ari@example.com", "name": "Ari"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[TokenResponse](t, w)

	identity, err := s.auth.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ari@example.com", identity.Email)

	w = s.do(http.MethodPost, "/jwt", "", gin.H{"name": "No email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueTokenRateLimited(t *testing.T) {
	s := newTestServer(t)
	limited := gin.New()
	SetupRoutes(limited, Services{Auth: s.auth, Users: s.users}, NewRateLimiter(0.001, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewBufferString(`{"email":"ari@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitIgnoresForwardedFor(t *testing.T) {
	s := newTestServer(t)
	limited, err := NewRouter([]string{"*"}, nil)
	require.NoError(t, err)
	SetupRoutes(limited, Services{Auth: s.auth, Users: s.users}, NewRateLimiter(0.001, 2))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewBufferString(`{"email":"ari@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
		req.RemoteAddr = "192.0.2.7:41000"
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRateLimitTrustedProxyForwardsClientIP(t *testing.T) {
	s := newTestServer(t)
	limited, err := NewRouter([]string{"*"}, []string{"192.0.2.0/24"})
	require.NoError(t, err)
	SetupRoutes(limited, Services{Auth: s.auth, Users: s.users}, NewRateLimiter(0.001, 1))

	send := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewBufferString(`{"email":"ari@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		req.RemoteAddr = "192.0.2.7:41000"
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"))
}

func TestNewRouterRejectsBadProxy(t *testing.T) {
	_, err := NewRouter(nil, []string{"not-an-ip"})
	assert.Error(t, err)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(0.001, 1)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	require.True(t, rl.getLimiter("a").Allow())

	// Still active at 9 minutes, so the bucket survives the sweep at 11.
	now = now.Add(9 * time.Minute)
	assert.False(t, rl.getLimiter("a").Allow())
	now = now.Add(2 * time.Minute)
	assert.False(t, rl.getLimiter("a").Allow())
	rl.mu.Lock()
	assert.Contains(t, rl.visitors, "a")
	rl.mu.Unlock()

	// Quiet for a full idle period: forgotten at the next sweep.
	now = now.Add(11 * time.Minute)
	rl.getLimiter("b")
	rl.mu.Lock()
	assert.NotContains(t, rl.visitors, "a")
	rl.mu.Unlock()
}

func TestAccessGate(t *testing.T) {
	s := newTestServer(t)
	memberToken := s.userWithRole("member@example.com", domain.RoleMember)
	trainerToken := s.userWithRole("trainer@example.com", domain.RoleTrainer)
	adminToken := s.userWithRole("admin@example.com", domain.RoleAdmin)
	unknownToken := s.token("ghost@example.com")

	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.TokenClaims{
		Email: "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	forged, err := service.NewAuthService("other-secret", time.Hour).IssueToken(domain.Identity{Email: "admin@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"admin route without token", "/users", "", http.StatusUnauthorized},
		{"admin route with forged token", "/users", forged, http.StatusUnauthorized},
		{"admin route with expired token", "/users", expiredToken, http.StatusUnauthorized},
		{"admin route as member", "/users", memberToken, http.StatusForbidden},
		{"admin route as trainer", "/users", trainerToken, http.StatusForbidden},
		{"admin route as unknown user", "/users", unknownToken, http.StatusForbidden},
		{"admin route as admin", "/users", adminToken, http.StatusOK},
		{"trainer route as member", "/trainer-bookings", memberToken, http.StatusForbidden},
		{"trainer route as trainer", "/trainer-bookings", trainerToken, http.StatusOK},
		{"trainer route as admin", "/trainer-bookings", adminToken, http.StatusOK},
		{"authenticated route without token", "/all-bookings/member/member@example.com", "", http.StatusUnauthorized},
		{"authenticated route as unknown user", "/all-bookings/member/member@example.com", unknownToken, http.StatusOK},
		{"public route", "/trainers", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	s := newTestServer(t)
	token := s.userWithRole("admin@example.com", domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleChangeTakesEffectWithoutNewToken(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.userWithRole("admin@example.com", domain.RoleAdmin)
	memberToken := s.userWithRole("member@example.com", domain.RoleMember)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/users", memberToken, nil).Code)

	member, err := s.users.GetByEmail(context.Background(), "member@example.com")
	require.NoError(t, err)
	w := s.do(http.MethodPatch, "/users/admin/"+member.ID.Hex(), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ack := decode[UpdateAck](t, w)
	assert.True(t, ack.Acknowledged)
	assert.EqualValues(t, 1, ack.ModifiedCount)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/users", memberToken, nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFoundAndMalformedIDs(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/trainer-details/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode[map[string]string](t, w)
	assert.NotEmpty(t, body["message"])

	w = s.do(http.MethodGet, "/trainer-details/not-an-id", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = s.do(http.MethodGet, "/class-details/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/class-details/xyz", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
