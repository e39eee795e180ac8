package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/CanvassHQ/canvass-backend/internal/utils"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/time/rate"
)

// VolunteerFetcher resolves a token identity to a Volunteer row, creating
// the row on first sight.
type VolunteerFetcher interface {
	FindOrCreateVolunteer(id, name, email, avatar string) (utils.VolunteerData, error)
}

// TokenMiddleware verifies the bearer JWT the identity provider issued and
// attaches the resolved volunteer to the request context. Locked accounts
// are refused here so no handler has to re-check.
func TokenMiddleware(fetcher VolunteerFetcher, secret, issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "Missing required header", http.StatusBadRequest)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Malformed authorization header", http.StatusBadRequest)
				return
			}

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			id, _ := claims["id"].(string)
			if id == "" {
				http.Error(w, "Your token is missing a required parameter", http.StatusBadRequest)
				return
			}
			if iss, _ := claims["iss"].(string); iss != issuer {
				http.Error(w, "Your token was issued for a different domain", http.StatusForbidden)
				return
			}

			name, _ := claims["name"].(string)
			email, _ := claims["email"].(string)
			avatar, _ := claims["avatar"].(string)

			vol, err := fetcher.FindOrCreateVolunteer(id, name, email, avatar)
			if err != nil {
				http.Error(w, "Couldn't resolve volunteer", http.StatusInternalServerError)
				return
			}
			if vol.Locked {
				http.Error(w, "Your account is locked", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextVolunteerKey, vol)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var allowed = map[string]struct{}{
	"http://localhost:5173":       {},
	"http://localhost:8081":       {},
	"https://app.canvasshq.org":   {},
	"https://admin.canvasshq.org": {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it’s on our allow-list
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminMiddleware gates a subtree to admin volunteers. Must run after
// TokenMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vol, ok := utils.GetVolunteerFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized: missing volunteer in context", http.StatusUnauthorized)
			return
		}
		if !vol.Admin {
			http.Error(w, "Permission denied", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

var (
	limiterMu sync.Mutex
	limiters  = map[string]*rate.Limiter{}
)

func limiterFor(key string) *rate.Limiter {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	l, ok := limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(20), 40)
		limiters[key] = l
	}
	return l
}

// RateLimitMiddleware applies a per-client token bucket keyed on the remote
// address (or X-Forwarded-For when present).
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Forwarded-For")
		if key == "" {
			key = r.RemoteAddr
		}
		if !limiterFor(key).Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
