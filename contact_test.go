package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestContact(t *testing.T) {
	s, r, _ := newTestServer(t)

	var sent []string
	s.sendMail = func(name, email, message string) error {
		sent = append(sent, name+"|"+email+"|"+message)
		return nil
	}

	w := postForm(r, "/contact", url.Values{"fullName": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hello"}})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Thank you") {
		t.Errorf("contact: code %d body %q", w.Code, w.Body.String())
	}
	if len(sent) != 1 || sent[0] != "Ada|ada@example.com|Hello" {
		t.Errorf("sent = %q", sent)
	}

	w = postForm(r, "/contact", url.Values{"fullName": {"Ada"}, "message": {"Hello"}})
	if !strings.Contains(w.Body.String(), "Please fill in") {
		t.Errorf("missing email accepted: %q", w.Body.String())
	}
	if len(sent) != 1 {
		t.Errorf("incomplete form sent mail")
	}

	s.sendMail = func(name, email, message string) error { return errors.New("smtp down") }
	w = postForm(r, "/contact", url.Values{"fullName": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hello"}})
	if !strings.Contains(w.Body.String(), `class="error"`) {
		t.Errorf("send failure not reported: %q", w.Body.String())
	}
}

func TestSendContactEmailRequiresCredentials(t *testing.T) {
	s, _, _ := newTestServer(t)

	if err := s.sendContactEmail("Ada", "ada@example.com", "Hello"); err == nil {
		t.Error("sendContactEmail without SMTP credentials succeeded")
	}

	s.cfg.SMTPUser, s.cfg.SMTPPass = "user", "pass"
	if err := s.sendContactEmail("Ada\r\nBcc: x@example.com", "ada@example.com", "Hello"); err == nil {
		t.Error("header injection accepted")
	}
}
