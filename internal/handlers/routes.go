package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lmartins/shortly/internal/auth"
	"github.com/lmartins/shortly/internal/ratelimit"
)

// RegisterRoutes registers all API routes. Operations that require a logged-in
// caller carry auth.RequiredMetadataKey so the auth middleware guards them, and
// the shorten endpoint carries its rate limit configuration.
func RegisterRoutes(api huma.API, urls *URLHandler, users *AuthHandler, shortenLimit ratelimit.EndpointConfig) {
	huma.Register(api, huma.Operation{
		OperationID:   "shorten-url",
		Method:        http.MethodPost,
		Path:          "/api/shorten",
		Summary:       "Create short URL",
		Description:   "Creates a short code for the given URL, or returns the existing one if the caller already shortened it.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			auth.RequiredMetadataKey: true,
			ratelimit.MetadataKey:    shortenLimit,
		},
	}, urls.Shorten)

	huma.Register(api, huma.Operation{
		OperationID:   "redirect-url",
		Method:        http.MethodGet,
		Path:          "/{code}",
		Summary:       "Redirect to original URL",
		Description:   "Redirects to the original URL associated with the short code.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusFound,
	}, urls.Redirect)

	huma.Register(api, huma.Operation{
		OperationID: "list-urls",
		Method:      http.MethodGet,
		Path:        "/api/urls",
		Summary:     "List my URLs",
		Description: "Lists the caller's short URLs, newest first.",
		Tags:        []string{"URLs"},
		Metadata: map[string]any{
			auth.RequiredMetadataKey: true,
		},
	}, urls.ListURLs)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-url",
		Method:        http.MethodDelete,
		Path:          "/api/urls/{code}",
		Summary:       "Delete short URL",
		Description:   "Deletes one of the caller's short URLs.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusNoContent,
		Metadata: map[string]any{
			auth.RequiredMetadataKey: true,
		},
	}, urls.DeleteURL)

	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/auth/register",
		Summary:       "Register",
		Description:   "Creates a user account.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, users.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in",
		Description: "Verifies credentials and sets the session cookie.",
		Tags:        []string{"Auth"},
	}, users.Login)

	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/auth/logout",
		Summary:     "Log out",
		Description: "Clears the session cookie.",
		Tags:        []string{"Auth"},
	}, users.Logout)

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/api/auth/me",
		Summary:     "Current user",
		Description: "Returns the logged-in user.",
		Tags:        []string{"Auth"},
		Metadata: map[string]any{
			auth.RequiredMetadataKey: true,
		},
	}, users.Me)
}
