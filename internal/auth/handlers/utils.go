package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"scenes-server/internal/shared/config"
)

// resolveRedirectURI accepts a client-supplied redirect target only when it
// shares the frontend's origin; anything else falls back to the frontend URL.
func resolveRedirectURI(raw string) string {
	fallback := config.GlobalConfig.Frontend.URL
	if raw == "" {
		return fallback
	}

	target, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	frontend, err := url.Parse(fallback)
	if err != nil {
		return fallback
	}

	if target.Scheme != frontend.Scheme || target.Host != frontend.Host {
		return fallback
	}
	return raw
}

// redirectWithError redirects to the frontend with error parameters
func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, errorType string) {
	base := redirectURI
	if base == "" {
		base = config.GlobalConfig.Frontend.URL
	}

	errorURL := fmt.Sprintf("%s/auth/error?error=%s", base, errorType)
	http.Redirect(w, r, errorURL, http.StatusTemporaryRedirect)
}
