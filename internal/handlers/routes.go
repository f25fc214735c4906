package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the link shortener routes. redirectGuard runs in
// front of the redirect handler only, so creation keeps its own stricter quota.
func RegisterRoutes(api huma.API, urlHandler *URLHandler, redirectGuard func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-link",
		Method:        http.MethodPost,
		Path:          "/api/shorten",
		Summary:       "Create short link",
		Description:   "Normalizes and validates the URL, charges the client's creation quota and stores a new short link.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusServiceUnavailable,
		},
	}, urlHandler.CreateShortLink)

	var middlewares huma.Middlewares
	if redirectGuard != nil {
		middlewares = huma.Middlewares{redirectGuard}
	}

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{shortId}",
		Summary:     "Redirect to long URL",
		Description: "Permanently redirects to the long URL behind the short identifier.",
		Tags:        []string{"Links"},
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
		},
		Middlewares: middlewares,
	}, urlHandler.Redirect)
}
