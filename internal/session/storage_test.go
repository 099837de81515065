package session

import (
	"testing"

	"billed/internal/core"
)

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	if _, ok := s.GetItem("k"); ok {
		t.Fatalf("expected empty storage")
	}
	s.SetItem("k", "v")
	if v, ok := s.GetItem("k"); !ok || v != "v" {
		t.Fatalf("unexpected item: %q ok=%v", v, ok)
	}
	s.RemoveItem("k")
	if _, ok := s.GetItem("k"); ok {
		t.Fatalf("expected item removed")
	}
}

func TestCurrentUser(t *testing.T) {
	if _, ok := CurrentUser(nil); ok {
		t.Fatalf("nil storage has no user")
	}

	s := NewMemoryStorage()
	if _, ok := CurrentUser(s); ok {
		t.Fatalf("expected no user")
	}

	s.SetItem(UserKey, `{"type":"Employee"}`)
	u, ok := CurrentUser(s)
	if !ok || u.Type != core.UserTypeEmployee || u.Email != "" {
		t.Fatalf("unexpected user %+v ok=%v", u, ok)
	}

	if err := SetCurrentUser(s, core.User{Type: core.UserTypeEmployee, Email: "a@a"}); err != nil {
		t.Fatalf("set user: %v", err)
	}
	u, ok = CurrentUser(s)
	if !ok || u.Email != "a@a" {
		t.Fatalf("unexpected user %+v ok=%v", u, ok)
	}

	s.SetItem(UserKey, "{not json")
	if _, ok := CurrentUser(s); ok {
		t.Fatalf("malformed user must be ignored")
	}
}
