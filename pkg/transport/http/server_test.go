package http

import (
	"context"
	"encoding/json"
	"io"
	"net"
	gohttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rhuss/coursebot/pkg/api"
	"github.com/rhuss/coursebot/pkg/auth"
	"github.com/rhuss/coursebot/pkg/auth/apikey"
	"github.com/rhuss/coursebot/pkg/transport"
)

func TestServerStartsAndAcceptsRequests(t *testing.T) {
	srv := NewServer(answer("served"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeOn(ctx, ln) }()

	resp, err := gohttp.Post("http://"+ln.Addr().String()+"/v1/ask", "application/json", strings.NewReader(`{"query":"q"}`))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != gohttp.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, gohttp.StatusOK)
	}
	var got api.AskResponse
	_ = json.NewDecoder(resp.Body).Decode(&got)
	if got.Answer != "served" {
		t.Errorf("answer = %q", got.Answer)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("ServeOn returned %v", err)
	}
}

func TestServerGracefulShutdown(t *testing.T) {
	started := make(chan struct{})
	slow := transport.AskerFunc(func(ctx context.Context, req *api.AskRequest) (*api.AskResponse, error) {
		close(started)
		select {
		case <-time.After(200 * time.Millisecond):
			return &api.AskResponse{Answer: "done"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	srv := NewServer(slow, WithShutdownTimeout(5*time.Second))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeOn(ctx, ln) }()

	responseCh := make(chan int, 1)
	go func() {
		resp, err := gohttp.Post("http://"+ln.Addr().String()+"/v1/ask", "application/json", strings.NewReader(`{"query":"slow"}`))
		if err != nil {
			responseCh <- 0
			return
		}
		defer resp.Body.Close()
		responseCh <- resp.StatusCode
	}()

	<-started
	cancel()

	if status := <-responseCh; status != gohttp.StatusOK {
		t.Errorf("slow request status = %d, want %d", status, gohttp.StatusOK)
	}
	if err := <-errCh; err != nil {
		t.Errorf("ServeOn returned %v", err)
	}
}

func TestServerExposesMetrics(t *testing.T) {
	srv := NewServer(answer("ok"), WithMetrics("/metrics"))
	h := srv.Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(gohttp.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(gohttp.MethodGet, "/metrics", nil))
	if rec.Code != gohttp.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "coursebot_requests_total") {
		t.Error("metrics output missing coursebot_requests_total")
	}
}

func TestServerWithoutMetrics(t *testing.T) {
	srv := NewServer(answer("ok"))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(gohttp.MethodGet, "/metrics", nil))
	if rec.Code != gohttp.StatusNotFound {
		t.Errorf("metrics status = %d, want 404 when disabled", rec.Code)
	}
}

func TestServerFunctionalOptions(t *testing.T) {
	srv := NewServer(answer("ok"),
		WithAddr(":9999"),
		WithMaxBodySize(1024),
		WithTimeouts(5*time.Second, 50*time.Second),
		WithShutdownTimeout(10*time.Second),
		WithProviders([]api.ProviderInfo{{Name: "claude", Active: true}}),
	)

	if srv.config.Addr != ":9999" {
		t.Errorf("addr = %q, want %q", srv.config.Addr, ":9999")
	}
	if srv.adapter.config.MaxBodySize != 1024 {
		t.Errorf("max body size = %d, want %d", srv.adapter.config.MaxBodySize, 1024)
	}
	if srv.httpServer.ReadTimeout != 5*time.Second || srv.httpServer.WriteTimeout != 50*time.Second {
		t.Errorf("timeouts = %v/%v", srv.httpServer.ReadTimeout, srv.httpServer.WriteTimeout)
	}
	if srv.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v, want %v", srv.config.ShutdownTimeout, 10*time.Second)
	}
	if len(srv.adapter.config.Providers) != 1 {
		t.Errorf("providers = %+v", srv.adapter.config.Providers)
	}
}

func TestServerRequiresAuth(t *testing.T) {
	chain := &auth.Chain{Authenticators: []auth.Authenticator{
		apikey.New([]apikey.Key{{Key: "sk-student", Subject: "student"}}),
	}}
	srv := NewServer(answer("ok"), WithMetrics("/metrics"), WithAuth(chain, nil))
	h := srv.Handler()

	rec := postAsk(t, h, `{"query":"q"}`)
	if rec.Code != gohttp.StatusUnauthorized {
		t.Errorf("without key: status = %d, want 401", rec.Code)
	}

	rec = postAsk(t, h, `{"query":"q"}`, "Authorization", "Bearer sk-student")
	if rec.Code != gohttp.StatusOK {
		t.Errorf("with key: status = %d, want 200", rec.Code)
	}

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(gohttp.MethodGet, path, nil))
		if rec.Code != gohttp.StatusOK {
			t.Errorf("GET %s: status = %d, want 200 without credentials", path, rec.Code)
		}
	}
}

func TestServerRateLimit(t *testing.T) {
	srv := NewServer(answer("ok"), WithAuth(&auth.Chain{AllowAnonymous: true}, auth.NewWindowLimiter(1, nil)))
	h := srv.Handler()

	if rec := postAsk(t, h, `{"query":"q"}`); rec.Code != gohttp.StatusOK {
		t.Fatalf("first ask: status = %d", rec.Code)
	}
	rec := postAsk(t, h, `{"query":"q"}`)
	if rec.Code != gohttp.StatusTooManyRequests {
		t.Errorf("second ask: status = %d, want 429", rec.Code)
	}
	if e := decodeError(t, rec); e.Type != api.ErrorTypeRateLimited {
		t.Errorf("error type = %q", e.Type)
	}
}
