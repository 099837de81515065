package http

import (
	"net/http"
	"net/url"

	"billed/internal/core"
	"billed/internal/session"
)

// UserCookie holds the JSON encoded core.User, optionally URL-escaped.
const UserCookie = session.UserKey

// sessionFromRequest loads the user cookie into a request-scoped storage.
// It reports false when the cookie is missing or does not decode to a user
// with an email.
func sessionFromRequest(r *http.Request) (session.Storage, core.User, bool) {
	c, err := r.Cookie(UserCookie)
	if err != nil || c.Value == "" {
		return nil, core.User{}, false
	}
	raw := c.Value
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		raw = unescaped
	}

	storage := session.NewMemoryStorage()
	storage.SetItem(session.UserKey, raw)
	u, ok := session.CurrentUser(storage)
	if !ok || u.Email == "" {
		return nil, core.User{}, false
	}
	return storage, u, true
}
