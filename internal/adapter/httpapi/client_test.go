package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type payload struct {
	Value string `json:"value"`
}

func TestNewValidatesURL(t *testing.T) {
	if _, err := New("catalog", "://bad-url", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := New("catalog", "/relative", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	client, err := New("catalog", "http://example.com", 0, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.httpClient.Timeout != 3*time.Second {
		t.Fatalf("expected default timeout, got %s", client.httpClient.Timeout)
	}
	if client.Service() != "catalog" {
		t.Fatalf("unexpected service %q", client.Service())
	}
}

func TestGetJSONBuildsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/api/products/42" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "Main st" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("unexpected accept header %q", r.Header.Get("Accept"))
		}
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	client, err := New("catalog", srv.URL+"/v1", time.Second, testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	var got payload
	if err := client.GetJSON(context.Background(), url.Values{"q": {"Main st"}}, &got, "api", "products", "42"); err != nil {
		t.Fatalf("get json: %v", err)
	}
	if got.Value != "ok" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestGetJSONEscapesSegments(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	client, err := New("catalog", srv.URL+"/v1/", time.Second, testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	var got payload
	if err := client.GetJSON(context.Background(), nil, &got, "api", "products", "a/b?c"); err != nil {
		t.Fatalf("get json: %v", err)
	}
	if len(paths) != 1 || paths[0] != "/v1/api/products/a%2Fb%3Fc" {
		t.Fatalf("unexpected paths %v", paths)
	}

	for _, segment := range []string{"..", ".", ""} {
		err := client.GetJSON(context.Background(), nil, &got, "api", "products", segment)
		if !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("segment %q: expected not found, got %v", segment, err)
		}
	}
	if len(paths) != 1 {
		t.Fatalf("rejected segments reached the server: %v", paths)
	}
}

func TestGetJSONMapsStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		header  http.Header
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: domainErrors.ErrNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: domainErrors.ErrDependencyUnavailable},
		{name: "bad json", status: http.StatusOK, body: "{", wantErr: domainErrors.ErrDependencyUnavailable},
		{name: "rate limited", status: http.StatusTooManyRequests, header: http.Header{"Retry-After": {"5"}}, wantErr: domainErrors.ErrDependencyUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for key, values := range tt.header {
					for _, v := range values {
						w.Header().Add(key, v)
					}
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := New("geocoder", srv.URL, time.Second, testLogger())
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			err = client.GetJSON(context.Background(), nil, &payload{}, "x")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.status == http.StatusTooManyRequests {
				retry, ok := IsRateLimited(err)
				if !ok || retry != 5*time.Second {
					t.Fatalf("expected rate limit of 5s, got %v %v", retry, ok)
				}
			}
		})
	}
}

func TestGetJSONTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := New("catalog", srv.URL, 50*time.Millisecond, testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = client.GetJSON(context.Background(), nil, &payload{}, "slow")
	if !errors.Is(err, domainErrors.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGetJSONLogsErrorResponses(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && a.Value.Any() == slog.LevelError {
			select {
			case called <- struct{}{}:
			default:
			}
		}
		return a
	}})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := New("catalog", srv.URL, time.Second, slog.New(handler))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.GetJSON(context.Background(), nil, &payload{}, "1"); err == nil {
		t.Fatal("expected error from server")
	}

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected error log to be written")
	}
}

func TestParseRetryAfter(t *testing.T) {
	httpTime := time.Now().Add(2 * time.Second).UTC().Format(http.TimeFormat)

	cases := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "empty", header: "", want: 5 * time.Second},
		{name: "seconds", header: "7", want: 7 * time.Second},
		{name: "http date", header: httpTime},
		{name: "fallback", header: "bad", want: 5 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseRetryAfter(tc.header)
			if tc.header == httpTime {
				if got <= 0 || got > 3*time.Second {
					t.Fatalf("unexpected retry duration %v", got)
				}
			} else if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
