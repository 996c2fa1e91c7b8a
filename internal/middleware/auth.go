package middleware

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lmartins/shortly/internal/auth"
)

// Authenticate is a middleware that verifies the session cookie and attaches
// the caller's identity to the request context.
//
// Operations opt in via auth.RequiredMetadataKey in their metadata; requests
// without a valid token on those operations are rejected with 401. Operations
// without the flag pass through untouched, so a login handler never sees it.
func Authenticate(api huma.API, tokens *auth.TokenService, cookieName string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !authRequired(ctx) {
			next(ctx)

			return
		}

		cookie, err := huma.ReadCookie(ctx, cookieName)
		if err != nil || cookie.Value == "" {
			writeNotAuthenticated(api, ctx)

			return
		}

		claims, err := tokens.Verify(cookie.Value)
		if err != nil {
			writeNotAuthenticated(api, ctx)

			return
		}

		identity := auth.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}

		ctx = huma.WithContext(ctx, auth.WithIdentity(ctx.Context(), identity))

		next(ctx)
	}
}

func authRequired(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	required, ok := op.Metadata[auth.RequiredMetadataKey].(bool)

	return ok && required
}

func writeNotAuthenticated(api huma.API, ctx huma.Context) {
	_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Not authenticated")
}
