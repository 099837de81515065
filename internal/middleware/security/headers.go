package security

import (
	"fmt"
	"net/http"
)

// HeadersConfig holds the security headers sent with every response.
// Empty values are not sent.
type HeadersConfig struct {
	CSP string
	// HSTSMaxAge is sent over TLS only, with includeSubDomains.
	HSTSMaxAge int

	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string
	CrossOriginOpener   string
	// Left empty: receipts are cross-origin images without CORP headers.
	CrossOriginEmbedder string
	CrossOriginResource string
}

// DefaultHeadersConfig allows htmx from unpkg and receipt images from any
// https origin; everything else stays same-origin.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP: "default-src 'self'; " +
			"script-src 'self' https://unpkg.com; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data: https:; " +
			"connect-src 'self'; " +
			"object-src 'none'; " +
			"frame-ancestors 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'",
		HSTSMaxAge: 31536000,

		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "strict-origin-when-cross-origin",
		PermissionsPolicy:   "geolocation=(), microphone=(), camera=(), payment=()",
		CrossOriginOpener:   "same-origin",
		CrossOriginResource: "same-origin",
	}
}

// HeadersMiddleware applies security headers to responses
type HeadersMiddleware struct {
	config HeadersConfig
}

// NewHeadersMiddleware creates a new security headers middleware
func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	return &HeadersMiddleware{
		config: config,
	}
}

// Middleware returns the HTTP middleware function
func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.applyHeaders(w, r)
		next.ServeHTTP(w, r)
	})
}

func (h *HeadersMiddleware) applyHeaders(w http.ResponseWriter, r *http.Request) {
	headers := w.Header()
	for name, value := range map[string]string{
		"Content-Security-Policy":      h.config.CSP,
		"X-Content-Type-Options":       h.config.XContentTypeOptions,
		"X-Frame-Options":              h.config.XFrameOptions,
		"Referrer-Policy":              h.config.ReferrerPolicy,
		"Permissions-Policy":           h.config.PermissionsPolicy,
		"Cross-Origin-Opener-Policy":   h.config.CrossOriginOpener,
		"Cross-Origin-Embedder-Policy": h.config.CrossOriginEmbedder,
		"Cross-Origin-Resource-Policy": h.config.CrossOriginResource,
	} {
		if value != "" {
			headers.Set(name, value)
		}
	}

	if r.TLS != nil && h.config.HSTSMaxAge > 0 {
		headers.Set("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", h.config.HSTSMaxAge))
	}
}

// StaticAssetMiddleware adds caching headers for static assets
func StaticAssetMiddleware(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge > 0 {
				w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", maxAge))
			}
			next.ServeHTTP(w, r)
		})
	}
}

