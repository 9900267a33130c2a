package auth

import (
	"net/http"

	"contactbook/internal/user"
	"contactbook/pkg/httpjson"
)

// Middleware guards routes with a bearer access token. The token's
// subject is resolved against the account store and made available to
// handlers through user.FromContext.
type Middleware struct {
	codec *Codec
	users user.Repository
}

func NewMiddleware(codec *Codec, users user.Repository) *Middleware {
	return &Middleware{codec: codec, users: users}
}

func (m *Middleware) RequireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "Authorization required")
			return
		}

		email, err := m.codec.Decode(token, TokenAccess)
		if err != nil {
			httpjson.Error(w, http.StatusUnauthorized, "Invalid access token")
			return
		}

		u, err := m.users.GetByEmail(r.Context(), email)
		if err != nil {
			httpjson.Error(w, http.StatusUnauthorized, "Invalid access token")
			return
		}

		next.ServeHTTP(w, r.WithContext(user.NewContext(r.Context(), u)))
	})
}
