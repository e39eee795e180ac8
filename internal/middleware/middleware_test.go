package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CanvassHQ/canvass-backend/internal/middleware"
	"github.com/CanvassHQ/canvass-backend/internal/utils"
	"github.com/golang-jwt/jwt/v4"
)

const (
	testSecret = "unit-test-secret"
	testIssuer = "canvass.test"
)

// mockFetcher implements middleware.VolunteerFetcher without any database
// dependency.
type mockFetcher struct {
	vol utils.VolunteerData
	err error
}

func (m mockFetcher) FindOrCreateVolunteer(id, name, email, avatar string) (utils.VolunteerData, error) {
	if m.err != nil {
		return utils.VolunteerData{}, m.err
	}
	v := m.vol
	if v.ID == "" {
		v.ID = id
		v.Name = name
	}
	return v, nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// callWithToken wraps a simple 200-OK inner handler in the provided middleware,
// optionally setting an Authorization header, and returns the recorded response.
func callWithToken(t *testing.T, mw func(http.Handler) http.Handler, header string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTokenMiddleware_MissingHeader(t *testing.T) {
	mw := middleware.TokenMiddleware(mockFetcher{}, testSecret, testIssuer)

	rec := callWithToken(t, mw, "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestTokenMiddleware_MalformedHeader(t *testing.T) {
	mw := middleware.TokenMiddleware(mockFetcher{}, testSecret, testIssuer)

	rec := callWithToken(t, mw, "Basic abc123")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestTokenMiddleware_BadSignature(t *testing.T) {
	mw := middleware.TokenMiddleware(mockFetcher{}, testSecret, testIssuer)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{"id": "vol-1", "iss": testIssuer}).SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatal(err)
	}
	rec := callWithToken(t, mw, "Bearer "+tok)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestTokenMiddleware_MissingIDClaim(t *testing.T) {
	mw := middleware.TokenMiddleware(mockFetcher{}, testSecret, testIssuer)

	tok := signToken(t, jwt.MapClaims{"iss": testIssuer})
	rec := callWithToken(t, mw, "Bearer "+tok)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing a required parameter") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestTokenMiddleware_WrongIssuer(t *testing.T) {
	mw := middleware.TokenMiddleware(mockFetcher{}, testSecret, testIssuer)

	tok := signToken(t, jwt.MapClaims{"id": "vol-1", "iss": "somewhere.else"})
	rec := callWithToken(t, mw, "Bearer "+tok)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "different domain") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestTokenMiddleware_LockedAccount(t *testing.T) {
	fetcher := mockFetcher{vol: utils.VolunteerData{ID: "vol-1", Locked: true}}
	mw := middleware.TokenMiddleware(fetcher, testSecret, testIssuer)

	tok := signToken(t, jwt.MapClaims{"id": "vol-1", "iss": testIssuer})
	rec := callWithToken(t, mw, "Bearer "+tok)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "locked") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestTokenMiddleware_FetcherError(t *testing.T) {
	fetcher := mockFetcher{err: errors.New("store down")}
	mw := middleware.TokenMiddleware(fetcher, testSecret, testIssuer)

	tok := signToken(t, jwt.MapClaims{"id": "vol-1", "iss": testIssuer})
	rec := callWithToken(t, mw, "Bearer "+tok)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

// TestTokenMiddleware_ValidToken verifies a good token reaches the inner
// handler with the resolved volunteer in context.
func TestTokenMiddleware_ValidToken(t *testing.T) {
	const wantID = "vol-ada"

	fetcher := mockFetcher{vol: utils.VolunteerData{ID: wantID, Name: "Ada Organizer", Admin: true}}
	mw := middleware.TokenMiddleware(fetcher, testSecret, testIssuer)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vol, ok := utils.GetVolunteerFromContext(r.Context())
		if !ok {
			http.Error(w, "volunteer not in context", http.StatusInternalServerError)
			return
		}
		if vol.ID != wantID || !vol.Admin {
			http.Error(w, "wrong volunteer in context: "+vol.ID, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	tok := signToken(t, jwt.MapClaims{"id": wantID, "iss": testIssuer, "name": "Ada Organizer"})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminMiddleware_MissingVolunteer(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.AdminMiddleware(inner)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRateLimitMiddleware_RejectsBursts(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RateLimitMiddleware(inner)

	var limited bool
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.77")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected the burst to be rate limited")
	}
}
