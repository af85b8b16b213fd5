package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestAdminRequiresLogin(t *testing.T) {
	_, r, _ := newTestServer(t)

	for _, path := range []string{"/admin/dashboard", "/admin/api/stats", "/admin/visitors", "/admin/subscribers"} {
		w := get(r, path)
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
			t.Errorf("GET %s: code %d location %q, want redirect to login", path, w.Code, w.Header().Get("Location"))
		}
	}
}

func TestAdminLogin(t *testing.T) {
	s, r, _ := newTestServer(t)

	w := postForm(r, "/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "Invalid credentials") {
		t.Errorf("bad password: code %d", w.Code)
	}

	w = postForm(r, "/admin/login", url.Values{"username": {"admin"}, "password": {"secret"}})
	if w.Code != http.StatusFound {
		t.Fatalf("login: code %d, want 302", w.Code)
	}
	var token *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "admin_token" {
			token = c
		}
	}
	if token == nil || token.Value != s.adminToken || !token.HttpOnly {
		t.Fatalf("login cookie = %+v", token)
	}

	s.trackVisitor("203.0.113.7", "agent", "/")
	s.recordSubscription("reader@example.com", "subscribed")

	authed := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(token)
		r.ServeHTTP(w, req)
		return w
	}

	if w := authed("/admin/dashboard"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Top Pages") {
		t.Errorf("dashboard: code %d", w.Code)
	}

	w = authed("/admin/api/stats")
	var stats AdminStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalVisitors != 1 || stats.Subscribers != 1 {
		t.Errorf("stats = %+v", stats)
	}

	w = authed("/admin/export/stats")
	if !strings.Contains(w.Header().Get("Content-Disposition"), "admin-stats.json") {
		t.Errorf("export missing attachment header")
	}

	if w := authed("/admin/subscribers"); !strings.Contains(w.Body.String(), "subscribed") {
		t.Errorf("subscribers page does not list the signup")
	}
}

func TestHashValue(t *testing.T) {
	s := &server{hashSalt: "salt"}
	a := s.hashValue("Reader@Example.com")
	if a != s.hashValue("reader@example.com") {
		t.Error("hash is case sensitive")
	}
	if len(a) != 16 {
		t.Errorf("hash length = %d, want 16", len(a))
	}
	other := &server{hashSalt: "pepper"}
	if a == other.hashValue("reader@example.com") {
		t.Error("hash ignores salt")
	}
}
