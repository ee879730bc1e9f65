package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/matzehuels/sociogram/pkg/errors"
)

// MentorTokenHeader carries the mentor credential as an alternative to a
// bearer token.
const MentorTokenHeader = "X-Mentor-Token"

// Authenticator decides whether a request carries the mentor credential.
type Authenticator interface {
	Authenticate(r *http.Request) bool
}

// AuthenticatorFunc adapts a function to [Authenticator].
type AuthenticatorFunc func(r *http.Request) bool

// Authenticate calls f(r).
func (f AuthenticatorFunc) Authenticate(r *http.Request) bool { return f(r) }

// TokenAuthenticator accepts requests presenting Token either as
// "Authorization: Bearer <token>", in the X-Mentor-Token header, or as the
// "token" query parameter (for plain download links). An empty Token
// rejects every request.
type TokenAuthenticator struct {
	Token string
}

// Authenticate implements [Authenticator].
func (a TokenAuthenticator) Authenticate(r *http.Request) bool {
	if a.Token == "" {
		return false
	}
	got := presentedToken(r)
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(a.Token)) == 1
}

func presentedToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if h := r.Header.Get(MentorTokenHeader); h != "" {
		return h
	}
	return r.URL.Query().Get("token")
}

func requireMentor(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.Authenticate(r) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="sociogram"`)
				writeError(w, r, errors.New(errors.ErrCodeUnauthorized, "mentor credential required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
