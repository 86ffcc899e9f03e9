package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainworklist "github.com/Bre77/wip/internal/domain/worklist"
	"github.com/Bre77/wip/internal/ports"
	"github.com/Bre77/wip/internal/usecase/worklist"
)

type fakeWorklist struct {
	items []domainworklist.Item

	listCalls    int
	refreshCalls int
	updates      []worklist.UpdateItemInput
	hides        []string
	batches      [][]worklist.ReorderEntry

	updateErr error
	batchErr  error
}

func (f *fakeWorklist) List(ctx context.Context, in worklist.ListInput) ([]domainworklist.Item, error) {
	f.listCalls++
	return f.items, nil
}

func (f *fakeWorklist) Refresh(ctx context.Context, userKey string) error {
	f.refreshCalls++
	return nil
}

func (f *fakeWorklist) UpdateItem(ctx context.Context, in worklist.UpdateItemInput) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, in)
	return nil
}

func (f *fakeWorklist) HideItem(ctx context.Context, userKey string, id string) error {
	f.hides = append(f.hides, id)
	return nil
}

func (f *fakeWorklist) BatchReorder(ctx context.Context, userKey string, entries []worklist.ReorderEntry) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batches = append(f.batches, entries)
	return nil
}

type fakeAuth struct {
	sessions  map[string]ports.Session
	loggedOut []string
}

func (f *fakeAuth) AuthCodeURL(state string) string {
	return "https://github.test/oauth/authorize?state=" + state
}

func (f *fakeAuth) CompleteLogin(ctx context.Context, code string) (ports.Session, error) {
	session := ports.Session{
		Token:     "fresh-token",
		UserKey:   "42",
		Username:  "octocat",
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if f.sessions == nil {
		f.sessions = map[string]ports.Session{}
	}
	f.sessions[session.Token] = session
	return session, nil
}

func (f *fakeAuth) SessionFromToken(ctx context.Context, token string) (ports.Session, error) {
	session, ok := f.sessions[token]
	if !ok {
		return ports.Session{}, ports.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeAuth) Logout(ctx context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	delete(f.sessions, token)
	return nil
}

func newTestServer(t *testing.T) (http.Handler, *fakeWorklist, *fakeAuth) {
	t.Helper()

	wl := &fakeWorklist{}
	auth := &fakeAuth{sessions: map[string]ports.Session{
		"valid-token": {
			Token:       "valid-token",
			UserKey:     "42",
			Username:    "octocat",
			AccessToken: "gho_test",
		},
	}}
	return New(wl, auth, nil), wl, auth
}

func withSession(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "valid-token"})
	return r
}

func TestApiRequiresSession(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "unauthorized" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestApiRejectsUnknownToken(t *testing.T) {
	handler, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "stale"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestListItems(t *testing.T) {
	handler, wl, _ := newTestServer(t)
	wl.items = []domainworklist.Item{
		{ID: "pr:acme/core#1", Kind: domainworklist.KindPullRequest, Title: "Fix flaky test", Priority: 1},
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/items", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Items []domainworklist.Item `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].ID != "pr:acme/core#1" {
		t.Fatalf("unexpected items: %+v", body.Items)
	}
}

func TestListItemsEmptyIsArrayNotNull(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/items", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestRefreshItems(t *testing.T) {
	handler, wl, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/items", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if wl.refreshCalls != 1 {
		t.Fatalf("expected one refresh call, got %d", wl.refreshCalls)
	}
}

func TestUpdateItemDecodesEscapedID(t *testing.T) {
	handler, wl, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/items/pr%3Aacme%2Fcore%231", strings.NewReader(`{"priority":0}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(req))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(wl.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(wl.updates))
	}
	if wl.updates[0].ID != "pr:acme/core#1" {
		t.Fatalf("expected unescaped id, got %q", wl.updates[0].ID)
	}
	if wl.updates[0].Priority == nil || *wl.updates[0].Priority != 0 {
		t.Fatalf("unexpected priority: %+v", wl.updates[0].Priority)
	}
}

func TestUpdateItemNotesNullClears(t *testing.T) {
	handler, wl, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/items/pr%3Aacme%2Fcore%231", strings.NewReader(`{"notes":null}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(req))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	in := wl.updates[0]
	if !in.SetNotes || in.Notes != nil {
		t.Fatalf("expected notes clear, got SetNotes=%v Notes=%v", in.SetNotes, in.Notes)
	}
}

func TestUpdateItemNotesAbsentUntouched(t *testing.T) {
	handler, wl, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/items/pr%3Aacme%2Fcore%231", strings.NewReader(`{"hidden":true}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(req))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	in := wl.updates[0]
	if in.SetNotes {
		t.Fatal("absent notes must not be marked for update")
	}
	if in.Hidden == nil || !*in.Hidden {
		t.Fatalf("expected hidden=true, got %+v", in.Hidden)
	}
}

func TestUpdateItemEmptyPayloadIsBadRequest(t *testing.T) {
	handler, wl, _ := newTestServer(t)
	wl.updateErr = worklist.ErrNoFields

	req := httptest.NewRequest(http.MethodPut, "/api/items/pr%3Aacme%2Fcore%231", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(req))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateItemInvalidPriorityIsBadRequest(t *testing.T) {
	handler, wl, _ := newTestServer(t)
	wl.updateErr = worklist.ErrInvalidPriority

	req := httptest.NewRequest(http.MethodPut, "/api/items/pr%3Aacme%2Fcore%231", strings.NewReader(`{"priority":1000}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(req))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateItemMalformedBody(t *testing.T) {
	handler, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/items/pr%3Aacme%2Fcore%231", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(req))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHideItem(t *testing.T) {
	handler, wl, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/items/issue%3Aacme%2Fcore%237/hide", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(req))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(wl.hides) != 1 || wl.hides[0] != "issue:acme/core#7" {
		t.Fatalf("unexpected hides: %v", wl.hides)
	}
}

func TestBatchPriority(t *testing.T) {
	handler, wl, _ := newTestServer(t)

	body := `{"items":[{"id":"pr:acme/core#1","priority":0},{"id":"issue:acme/core#2","priority":3}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/items/batch-priority", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(req))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(wl.batches) != 1 || len(wl.batches[0]) != 2 {
		t.Fatalf("unexpected batches: %+v", wl.batches)
	}
	if wl.batches[0][0].ID != "pr:acme/core#1" || wl.batches[0][0].Priority != 0 {
		t.Fatalf("unexpected first entry: %+v", wl.batches[0][0])
	}
}

func TestBatchPriorityEmptyIsBadRequest(t *testing.T) {
	handler, wl, _ := newTestServer(t)
	wl.batchErr = worklist.ErrEmptyBatch

	req := httptest.NewRequest(http.MethodPost, "/api/items/batch-priority", strings.NewReader(`{"items":[]}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(req))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginRedirectsWithState(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	location := rec.Header().Get("Location")
	if !strings.Contains(location, "state=") {
		t.Fatalf("expected state in redirect, got %q", location)
	}

	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookieName {
			stateCookie = c
		}
	}
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("expected state cookie to be set")
	}
	if !strings.Contains(location, "state="+stateCookie.Value) {
		t.Fatalf("redirect state %q does not match cookie %q", location, stateCookie.Value)
	}
}

func TestCallbackSetsSessionCookie(t *testing.T) {
	handler, _, auth := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=oauth-code&state=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "abc"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if _, ok := auth.sessions[sessionCookie.Value]; !ok {
		t.Fatalf("cookie token %q not backed by a session", sessionCookie.Value)
	}
	if !sessionCookie.HttpOnly {
		t.Fatal("session cookie must be http-only")
	}
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	handler, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=oauth-code&state=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "other"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMe(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"authenticated":false`) {
		t.Fatalf("expected unauthenticated, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/auth/me", nil)))

	if !strings.Contains(rec.Body.String(), `"username":"octocat"`) {
		t.Fatalf("expected username, got %s", rec.Body.String())
	}
}

func TestLogoutClearsCookieAndSession(t *testing.T) {
	handler, _, auth := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/auth/logout", nil)))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if len(auth.loggedOut) != 1 || auth.loggedOut[0] != "valid-token" {
		t.Fatalf("unexpected logout calls: %v", auth.loggedOut)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie to be cleared")
	}
}
