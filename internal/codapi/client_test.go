package codapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"
)

const profileData = `{"username":"p1","platform":"battle","lifetime":{"mode":{"br":{"properties":{"kills":10}}}}}`

type fakeProvider struct {
	srv        *httptest.Server
	statsCalls atomic.Int32
	lastPath   atomic.Value
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	f := &fakeProvider{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /cod/mapp/registerDevice", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body["deviceId"]) != 32 {
			http.Error(w, "bad device", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","data":{"authHeader":"auth-123"}}`))
	})
	mux.HandleFunc("POST /cod/mapp/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer auth-123" || r.Header.Get("x_cod_device_id") == "" {
			http.Error(w, "no auth", http.StatusUnauthorized)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			_, _ = w.Write([]byte(`{"success":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"s_ACT_SSO_COOKIE":"sso","atkn":"atkn"}`))
	})
	mux.HandleFunc("GET /stats/", func(w http.ResponseWriter, r *http.Request) {
		f.statsCalls.Add(1)
		f.lastPath.Store(r.URL.EscapedPath())

		if !strings.Contains(r.Header.Get("Cookie"), "ACT_SSO_COOKIE=sso") || r.Header.Get("X-XSRF-TOKEN") == "" {
			http.Error(w, "no session", http.StatusForbidden)
			return
		}
		switch {
		case strings.Contains(r.URL.Path, "/gamer/verbose/"):
			http.Error(w, strings.Repeat("ошибка ", 100), http.StatusBadGateway)
		case strings.Contains(r.URL.Path, "/gamer/broken/"):
			http.Error(w, "boom", http.StatusInternalServerError)
		case strings.Contains(r.URL.Path, "/gamer/nobody/"):
			_, _ = w.Write([]byte(`{"status":"error","data":{"type":"com.activision.mt.common.stdtools.exceptions.NotFoundException","message":"Not permitted: user not found"}}`))
		default:
			_, _ = w.Write([]byte(`{"status":"success","data":` + profileData + `}`))
		}
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeProvider) client() *Client {
	return New(Options{ProfileURL: f.srv.URL, StatsURL: f.srv.URL, RPS: 1000, Burst: 10})
}

func TestFetchStats(t *testing.T) {
	f := newFakeProvider(t)
	c := f.client()
	ctx := context.Background()

	if err := c.Login(ctx, "me@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !c.LoggedIn() {
		t.Fatal("expected logged in client")
	}

	data, err := c.FetchStats(ctx, "p1#1234", "battle")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != profileData {
		t.Fatalf("data = %s, want provider document untouched", data)
	}

	path, _ := f.lastPath.Load().(string)
	want := "/stats/cod/v1/title/mw/platform/battle/gamer/p1%231234/profile/type/wz"
	if path != want {
		t.Fatalf("path = %s, want %s", path, want)
	}
}

func TestFetchStatsPlatformFallback(t *testing.T) {
	f := newFakeProvider(t)
	c := f.client()
	ctx := context.Background()

	if err := c.Login(ctx, "me@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.FetchStats(ctx, "p1", "steam"); err != nil {
		t.Fatal(err)
	}

	path, _ := f.lastPath.Load().(string)
	if !strings.Contains(path, "/platform/all/") {
		t.Fatalf("path = %s, want platform all", path)
	}
}

func TestFetchStatsBeforeLogin(t *testing.T) {
	f := newFakeProvider(t)
	c := f.client()

	if _, err := c.FetchStats(context.Background(), "p1", "psn"); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("err = %v, want ErrNotLoggedIn", err)
	}
	if f.statsCalls.Load() != 0 {
		t.Fatal("no request expected before login")
	}
}

func TestLoginFailure(t *testing.T) {
	f := newFakeProvider(t)
	c := f.client()

	err := c.Login(context.Background(), "me@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %v, want unauthorized APIError", err)
	}
	if c.LoggedIn() {
		t.Fatal("client must stay logged out")
	}

	if err := c.Login(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty credentials")
	}
}

func TestFetchStatsProviderErrors(t *testing.T) {
	f := newFakeProvider(t)
	c := f.client()
	ctx := context.Background()

	if err := c.Login(ctx, "me@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	_, err := c.FetchStats(ctx, "nobody", "xbl")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !strings.Contains(apiErr.Message, "user not found") {
		t.Fatalf("err = %v, want provider message", err)
	}

	_, err = c.FetchStats(ctx, "broken", "xbl")
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("err = %v, want HTTP 500 APIError", err)
	}
}

func TestFetchStatsLongErrorBody(t *testing.T) {
	f := newFakeProvider(t)
	c := f.client()
	ctx := context.Background()

	if err := c.Login(ctx, "me@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	_, err := c.FetchStats(ctx, "verbose", "psn")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("err = %v, want HTTP 502 APIError", err)
	}
	if !utf8.ValidString(err.Error()) {
		t.Fatalf("error text must stay valid UTF-8: %q", err.Error())
	}
	if !strings.HasSuffix(apiErr.Message, "...") || utf8.RuneCountInString(apiErr.Message) != maxErrorRunes+3 {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo", 2); got != "hé..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("héllo", 5); got != "héllo" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestFetchStatsCanceledContext(t *testing.T) {
	f := newFakeProvider(t)
	c := New(Options{ProfileURL: f.srv.URL, StatsURL: f.srv.URL, RPS: 0.001, Burst: 3})

	if err := c.Login(context.Background(), "me@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	// burst is spent on register + login + first lookup
	if _, err := c.FetchStats(context.Background(), "p1", "psn"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.FetchStats(ctx, "p1", "psn"); err == nil {
		t.Fatal("expected limiter error on canceled context")
	}
	if f.statsCalls.Load() != 1 {
		t.Fatalf("stats calls = %d, want 1", f.statsCalls.Load())
	}
}

func TestResolvePlatform(t *testing.T) {
	cases := map[string]Platform{
		"battle": PlatformBattle,
		"psn":    PlatformPSN,
		"xbl":    PlatformXBL,
		"all":    PlatformAll,
		"uno":    PlatformAll,
		"":       PlatformAll,
		"PSN":    PlatformAll,
	}
	for in, want := range cases {
		if got := ResolvePlatform(in); got != want {
			t.Errorf("ResolvePlatform(%q) = %s, want %s", in, got, want)
		}
	}
}
