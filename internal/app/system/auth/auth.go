package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants & globals                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey = "is_authenticated"
	uidKey    = "uid"
	nameKey   = "user_name"
	emailKey  = "user_email"
)

// Store is initialised once via InitSessionStore.
var Store *sessions.CookieStore

// sessionName is set by InitSessionStore; callers never need it directly.
var sessionName = "nunetwork-session"

/*─────────────────────────────────────────────────────────────────────────────*
| Current-caller helper                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// Caller is the authenticated identity injected into r.Context(). UID is
// the caller's node id in the referral tree (and the id under which an
// unregistered caller will be created).
type Caller struct {
	UID   string
	Name  string
	Email string
}

type ctxKey string

const callerKey ctxKey = "caller"

// CurrentCaller returns the caller and a "found?" flag.
func CurrentCaller(r *http.Request) (*Caller, bool) {
	c, ok := r.Context().Value(callerKey).(*Caller)
	return c, ok
}

// Verifier resolves a bearer credential to the caller's stable node id.
// Credential issuance and verification details belong to the identity
// provider; this core only consumes the resolved uid.
type Verifier interface {
	Verify(ctx context.Context, token string) (uid string, err error)
}

// LoadCaller injects the caller into context when the request carries a
// valid identity: a bearer token first, the session cookie otherwise.
// Requests without either pass through unauthenticated; RequireSignedIn
// is the gate.
func LoadCaller(v Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" && v != nil {
				uid, err := v.Verify(r.Context(), token)
				if err == nil && uid != "" {
					next.ServeHTTP(w, withCaller(r, &Caller{UID: uid}))
					return
				}
				if err != nil {
					logger.Debug("bearer token rejected", zap.Error(err))
				}
			}

			if Store != nil {
				sess, _ := Store.Get(r, sessionName)
				if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
					c := &Caller{
						UID:   getString(sess, uidKey),
						Name:  getString(sess, nameKey),
						Email: getString(sess, emailKey),
					}
					if c.UID != "" {
						next.ServeHTTP(w, withCaller(r, c))
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSignedIn ensures there is a caller in context (set by
// LoadCaller). API callers get a plain JSON 401; the service has no
// HTML surface, so there is nothing to redirect to.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentCaller(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
	})
}

// SignIn persists the caller in the session cookie.
func SignIn(w http.ResponseWriter, r *http.Request, c Caller) error {
	if Store == nil {
		return fmt.Errorf("session store not initialised")
	}
	sess, _ := Store.Get(r, sessionName)
	sess.Values[isAuthKey] = true
	sess.Values[uidKey] = c.UID
	sess.Values[nameKey] = c.Name
	sess.Values[emailKey] = c.Email
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func SignOut(w http.ResponseWriter, r *http.Request) error {
	if Store == nil {
		return nil
	}
	sess, _ := Store.Get(r, sessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// InitSessionStore initializes the global session Store using the
// provided signing key, cookie name, and domain. The secure flag
// controls whether cookies are marked Secure and which SameSite mode is
// used: None in production over HTTPS, Lax for local dev over http.
func InitSessionStore(sessionKey, name, domain string, secure bool, logger *zap.Logger) error {
	if sessionKey == "" {
		return fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name != "" {
		sessionName = name
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}

	store.Options = opts
	Store = store

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return nil
}

// WithTestCaller injects a caller directly into the request context,
// bypassing middleware. Tests only.
func WithTestCaller(r *http.Request, c *Caller) *http.Request {
	return withCaller(r, c)
}

// helpers

func withCaller(r *http.Request, c *Caller) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), callerKey, c))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const scheme = "Bearer "
	if len(h) > len(scheme) && strings.EqualFold(h[:len(scheme)], scheme) {
		return strings.TrimSpace(h[len(scheme):])
	}
	return ""
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
