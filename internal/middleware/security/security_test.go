package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientIP(t *testing.T) {
	d := NewClientIPResolver()

	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct public peer ignores headers", "203.0.113.9:5000", "1.2.3.4", "", "203.0.113.9"},
		{"trusted proxy forwards first hop", "10.0.0.2:5000", "198.51.100.7, 10.0.0.1", "", "198.51.100.7"},
		{"trusted proxy with real ip", "127.0.0.1:5000", "", "198.51.100.8", "198.51.100.8"},
		{"trusted proxy with garbage header", "127.0.0.1:5000", "nope", "", "127.0.0.1"},
		{"unparseable remote", "pipe", "", "", "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := d.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}

	if err := d.AddTrustedProxy("not-a-cidr"); err == nil {
		t.Error("expected error for invalid CIDR")
	}
}

func TestSafeImageURL(t *testing.T) {
	for raw, want := range map[string]bool{
		"":                                   true,
		"https://storage.test/o/a.jpg?alt=1": true,
		"http://localhost/a.png":             true,
		"javascript:alert(1)":                false,
		"data:image/png;base64,AAAA":         false,
		"/relative.jpg":                      false,
		"https://":                           false,
	} {
		if got := SafeImageURL(raw); got != want {
			t.Errorf("SafeImageURL(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/bills", nil))

	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("missing X-Frame-Options")
	}
	if rr.Header().Get("Cross-Origin-Embedder-Policy") != "" {
		t.Errorf("COEP should be unset so receipts can load")
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Errorf("HSTS must only be sent over TLS")
	}
}

func TestDefaultCSPAllowsReceiptsAndHtmx(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/bills", nil))

	directives := map[string]string{}
	for _, d := range strings.Split(rr.Header().Get("Content-Security-Policy"), ";") {
		d = strings.TrimSpace(d)
		if name, value, ok := strings.Cut(d, " "); ok {
			directives[name] = value
		}
	}
	if directives["img-src"] != "'self' data: https:" {
		t.Errorf("img-src = %q, receipts are served from https storage", directives["img-src"])
	}
	if directives["script-src"] != "'self' https://unpkg.com" {
		t.Errorf("script-src = %q", directives["script-src"])
	}
	if directives["object-src"] != "'none'" {
		t.Errorf("object-src = %q", directives["object-src"])
	}
}

func TestHeadersSkipEmptyValuesAndSendHSTSOverTLS(t *testing.T) {
	cfg := DefaultHeadersConfig()
	cfg.XFrameOptions = ""
	h := NewHeadersMiddleware(cfg).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "https://billed.test/bills", nil)
	req.TLS = &tls.ConnectionState{}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if _, ok := rr.Header()["X-Frame-Options"]; ok {
		t.Errorf("empty X-Frame-Options should not be sent")
	}
	if got := rr.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q", got)
	}
}
