package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/glazeradr/portfolio/internal/newsletter"
)

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestNewsletterAPI(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		subErr  error
		code    int
		key     string
		message string
		calls   int
	}{
		{"subscribed", `{"email":"reader@example.com"}`, nil, http.StatusOK, "message", msgSubscribed, 1},
		{"already subscribed", `{"email":"reader@example.com"}`, newsletter.ErrMemberExists, http.StatusOK, "message", msgAlreadySubscribed, 1},
		{"wrapped member exists", `{"email":"reader@example.com"}`, &newsletter.APIError{StatusCode: 400, Title: "Member Exists"}, http.StatusOK, "message", msgAlreadySubscribed, 1},
		{"provider failure", `{"email":"reader@example.com"}`, errors.New("boom"), http.StatusInternalServerError, "error", msgSubscribeFailed, 1},
		{"not configured", `{"email":"reader@example.com"}`, fmt.Errorf("subscribe: %w", newsletter.ErrNotConfigured), http.StatusInternalServerError, "error", msgSubscribeFailed, 1},
		{"missing email", `{}`, nil, http.StatusBadRequest, "error", msgInvalidEmail, 0},
		{"invalid email", `{"email":"not-an-email"}`, nil, http.StatusBadRequest, "error", msgInvalidEmail, 0},
		{"malformed body", `{"email":`, nil, http.StatusBadRequest, "error", msgInvalidEmail, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r, sub := newTestServer(t)
			sub.err = tt.subErr

			w := postJSON(r, "/api/newsletter", tt.body)
			if w.Code != tt.code {
				t.Fatalf("code = %d, want %d", w.Code, tt.code)
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp[tt.key] != tt.message {
				t.Errorf("%s = %q, want %q", tt.key, resp[tt.key], tt.message)
			}
			if len(sub.emails) != tt.calls {
				t.Errorf("provider called %d times, want %d", len(sub.emails), tt.calls)
			}
		})
	}
}

func TestNewsletterRecordsOutcomes(t *testing.T) {
	s, r, sub := newTestServer(t)

	postJSON(r, "/api/newsletter", `{"email":"a@example.com"}`)
	postJSON(r, "/api/newsletter", `{"email":"b@example.com"}`)
	sub.err = newsletter.ErrMemberExists
	postJSON(r, "/api/newsletter", `{"email":"a@example.com"}`)
	sub.err = errors.New("down")
	postJSON(r, "/api/newsletter", `{"email":"c@example.com"}`)

	stats, err := s.getAdminStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Subscribers != 2 || stats.DuplicateSignups != 1 || stats.FailedSignups != 1 {
		t.Errorf("stats = %d subscribed, %d duplicate, %d failed; want 2, 1, 1",
			stats.Subscribers, stats.DuplicateSignups, stats.FailedSignups)
	}
	for _, rec := range stats.RecentSubscriptions {
		if strings.Contains(rec.HashedEmail, "@") {
			t.Errorf("stored email %q is not hashed", rec.HashedEmail)
		}
	}
}

func TestNewsletterTrimsEmail(t *testing.T) {
	_, r, sub := newTestServer(t)

	postJSON(r, "/api/newsletter", `{"email":"  reader@example.com "}`)
	if len(sub.emails) != 1 || sub.emails[0] != "reader@example.com" {
		t.Errorf("provider got %q, want trimmed address", sub.emails)
	}
}

func TestNewsletterForm(t *testing.T) {
	tests := []struct {
		email  string
		subErr error
		want   string
		class  string
	}{
		{"reader@example.com", nil, msgSubscribed, "success"},
		{"reader@example.com", newsletter.ErrMemberExists, msgAlreadySubscribed, "success"},
		{"bad", nil, msgInvalidEmail, "error"},
		{"reader@example.com", errors.New("down"), msgSubscribeFailed, "error"},
	}
	for _, tt := range tests {
		_, r, sub := newTestServer(t)
		sub.err = tt.subErr

		w := httptest.NewRecorder()
		form := url.Values{"email": {tt.email}}
		req := httptest.NewRequest(http.MethodPost, "/newsletter", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: code = %d, want 200", tt.email, w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, tt.want) || !strings.Contains(body, `class="`+tt.class+`"`) {
			t.Errorf("%s: body = %q, want %q in a %s fragment", tt.email, body, tt.want, tt.class)
		}
	}
}

func TestNewsletterFormUnreadableBody(t *testing.T) {
	_, r, sub := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/newsletter", strings.NewReader("email=reader@example.com"))
	req.Header.Set("Content-Type", "multipart/form-data")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, msgInvalidEmail) || !strings.Contains(body, `class="error"`) {
		t.Errorf("body = %q, want invalid email fragment", body)
	}
	if len(sub.emails) != 0 {
		t.Errorf("provider called %d times, want 0", len(sub.emails))
	}
}
