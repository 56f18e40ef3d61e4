package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/orderdesk/internal/pkg/auth"
	testhelpers "github.com/polkiloo/orderdesk/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAuthRequired(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{}))
	router.GET("/", func(c *gin.Context) {})
	if resp := serve(router, ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}))
	router.GET("/", func(c *gin.Context) {})
	if resp := serve(router, "token"); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: context.DeadlineExceeded}))
	router.GET("/", func(c *gin.Context) {})
	if resp := serve(router, "token"); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var stored model.Identity
	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Identity: model.Identity{AccountID: 42, Role: model.RoleOperator}}))
	router.GET("/", func(c *gin.Context) {
		stored, _ = CurrentIdentity(c)
		c.Status(http.StatusOK)
	})
	if resp := serve(router, "token"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if stored.AccountID != 42 || stored.Role != model.RoleOperator {
		t.Fatalf("unexpected identity %+v", stored)
	}
}

func TestOptionalAuth(t *testing.T) {
	var (
		found bool
		id    model.Identity
	)
	handler := func(c *gin.Context) {
		id, found = CurrentIdentity(c)
		c.Status(http.StatusOK)
	}

	router := gin.New()
	router.Use(OptionalAuth(testhelpers.TokenParserStub{Identity: model.Identity{AccountID: 5, Role: model.RoleCustomer}}))
	router.GET("/", handler)

	if resp := serve(router, ""); resp.Code != http.StatusOK || found {
		t.Fatalf("expected anonymous pass, got %d found=%v", resp.Code, found)
	}
	if resp := serve(router, "token"); resp.Code != http.StatusOK || !found || id.AccountID != 5 {
		t.Fatalf("expected identity, got %d %+v", resp.Code, id)
	}

	router = gin.New()
	router.Use(OptionalAuth(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}))
	router.GET("/", handler)
	if resp := serve(router, "expired"); resp.Code != http.StatusOK || found {
		t.Fatalf("expected anonymous pass for invalid token, got %d found=%v", resp.Code, found)
	}
}

func TestRequireRole(t *testing.T) {
	build := func(role model.Role) *gin.Engine {
		router := gin.New()
		router.Use(AuthRequired(testhelpers.TokenParserStub{Identity: model.Identity{AccountID: 1, Role: role}}))
		router.Use(RequireRole(model.RoleOperator, model.RoleAdmin))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	if resp := serve(build(model.RoleCustomer), "token"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", resp.Code)
	}
	if resp := serve(build(model.RoleOperator), "token"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for operator, got %d", resp.Code)
	}

	router := gin.New()
	router.Use(RequireRole(model.RoleAdmin))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	if resp := serve(router, ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.Code)
	}
}

func TestSetAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token")
	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}
	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 || cookies[0].Value != "token" {
		t.Fatalf("expected cookie with token, got %+v", cookies)
	}
}

func TestExtractToken(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
	c.Request.Header.Set("Authorization", "Bearer abc")
	if token := extractToken(c); token != "abc" {
		t.Fatalf("expected token from header, got %q", token)
	}
	c.Request.Header.Del("Authorization")
	c.Request.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
}

func gzipped(t *testing.T, payload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte(payload))
	_ = gz.Close()
	return buf.Bytes()
}

func TestDecompressRequest(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest(4))
	var body string
	router.POST("/", func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		body = string(data)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipped(t, "payload")))
	req.Header.Set("Content-Encoding", "gzip")
	router.ServeHTTP(httptest.NewRecorder(), req)
	if body != "payl" {
		t.Fatalf("expected truncated decompressed payload, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("plain")))
	body = ""
	router.ServeHTTP(httptest.NewRecorder(), req)
	if body != "plain" {
		t.Fatalf("expected plain body, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not gzip")))
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed gzip, got %d", resp.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	levels := map[slog.Level]int{}
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			if lvl, ok := a.Value.Any().(slog.Level); ok {
				levels[lvl]++
			}
		}
		return a
	}})
	logger := slog.New(handler)

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	if levels[slog.LevelInfo] != 1 || levels[slog.LevelError] != 1 {
		t.Fatalf("unexpected log levels %v", levels)
	}
}
