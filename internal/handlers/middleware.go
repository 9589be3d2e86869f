package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/microblog/apiserver/internal/auth"
	"github.com/microblog/apiserver/internal/services"
	"github.com/microblog/apiserver/internal/store"
)

// TokenHeader is the request header carrying the bearer token. The name is
// part of the public API contract and must stay exactly "api-token".
const TokenHeader = "api-token"

const (
	msgMissingToken   = "Authentication token is not available, please login to get one"
	msgUserGone       = "user does not exist, invalid token"
	msgFailedLoadUser = "failed to load user"
)

// RequireAuth builds middleware gating a route behind token authentication.
// It validates the api-token header, resolves the token's subject to a live
// user record, and injects the user id into the request context. Every gated
// request performs one signature check and one store lookup; nothing is
// cached across requests.
func RequireAuth(tokens *auth.TokenService, users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := strings.TrimSpace(r.Header.Get(TokenHeader))
			if tokenString == "" {
				writeError(w, http.StatusBadRequest, msgMissingToken)
				return
			}

			userID, err := tokens.Validate(tokenString)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}

			// The subject may reference a user deleted after issuance;
			// a valid signature alone does not admit the request.
			if _, err := users.GetByID(r.Context(), userID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					writeError(w, http.StatusBadRequest, msgUserGone)
					return
				}
				writeError(w, http.StatusInternalServerError, msgFailedLoadUser)
				return
			}

			ctx := context.WithValue(r.Context(), contextSubjectKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
