package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSessionManager_LoginRoundTrip(t *testing.T) {
	sm := NewSessionManager(SessionOptions{Secret: testSecret, MaxAge: 3600})

	rr := httptest.NewRecorder()
	if err := sm.Login(rr, httptest.NewRequest(http.MethodGet, "/", nil), 42); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	cookie := lastCookie(t, rr)
	if !cookie.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", cookie.SameSite)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	id, ok := sm.UserID(req)
	if !ok || id != 42 {
		t.Fatalf("expected user 42, got %d (%v)", id, ok)
	}
}

func TestSessionManager_NoCookie(t *testing.T) {
	sm := NewSessionManager(SessionOptions{Secret: testSecret})
	if _, ok := sm.UserID(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatalf("expected no user without a cookie")
	}
}

func TestSessionManager_RejectsForeignCookie(t *testing.T) {
	signer := NewSessionManager(SessionOptions{Secret: "ffffffffffffffffffffffffffffffff"})
	rr := httptest.NewRecorder()
	_ = signer.Login(rr, httptest.NewRequest(http.MethodGet, "/", nil), 1)

	sm := NewSessionManager(SessionOptions{Secret: testSecret})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(lastCookie(t, rr))
	if _, ok := sm.UserID(req); ok {
		t.Fatalf("expected cookie signed with another secret to be rejected")
	}
}

func TestSessionManager_Logout(t *testing.T) {
	sm := NewSessionManager(SessionOptions{Secret: testSecret, MaxAge: 3600})

	rr := httptest.NewRecorder()
	_ = sm.Login(rr, httptest.NewRequest(http.MethodGet, "/", nil), 7)
	loggedIn := lastCookie(t, rr)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(loggedIn)
	rr = httptest.NewRecorder()
	if err := sm.Logout(rr, req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(lastCookie(t, rr))
	if _, ok := sm.UserID(req); ok {
		t.Fatalf("expected session to be cleared")
	}
}

func TestSessionManager_FlashesPopOnce(t *testing.T) {
	sm := NewSessionManager(SessionOptions{Secret: testSecret, MaxAge: 3600})

	rr := httptest.NewRecorder()
	_ = sm.AddFlash(rr, httptest.NewRequest(http.MethodGet, "/", nil), FlashInfo, "hello")
	cookie := lastCookie(t, rr)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	flashes := sm.Flashes(rr, req)
	if len(flashes) != 1 || flashes[0].Message != "hello" || flashes[0].Category != FlashInfo {
		t.Fatalf("unexpected flashes: %+v", flashes)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(lastCookie(t, rr))
	if again := sm.Flashes(httptest.NewRecorder(), req); len(again) != 0 {
		t.Fatalf("expected flashes to be consumed, got %+v", again)
	}
}
