package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"statuswatch/internal/config"
	"statuswatch/internal/models"
)

func listenTCP(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return host, port
}

func TestPortProberSuccess(t *testing.T) {
	host, port := listenTCP(t)

	outcome := (&PortProber{Address: host, Port: port}).Probe(context.Background())
	if !outcome.Success {
		t.Fatalf("expected success, got error %q", outcome.Error)
	}
	if outcome.Method != models.MethodPort {
		t.Errorf("expected port method, got %s", outcome.Method)
	}
	if outcome.LatencyMs < 0 {
		t.Errorf("latency must be non-negative, got %v", outcome.LatencyMs)
	}
}

func TestPortProberRefused(t *testing.T) {
	// Find a closed port by grabbing one and releasing it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	host, closedStr, _ := net.SplitHostPort(ln.Addr().String())
	closed, _ := strconv.Atoi(closedStr)
	ln.Close()

	outcome := (&PortProber{Address: host, Port: closed}).Probe(context.Background())
	if outcome.Success {
		t.Fatal("expected failure on closed port")
	}
	if outcome.Error == "" {
		t.Error("failed probe should carry an error descriptor")
	}
}

func TestPortProberTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// 192.0.2.0/24 is TEST-NET; connections black-hole rather than refuse.
	outcome := (&PortProber{Address: "192.0.2.1", Port: 22}).Probe(ctx)
	if outcome.Success {
		t.Fatal("expected timeout failure")
	}
	if outcome.Error != "timeout" {
		t.Errorf("expected error %q, got %q", "timeout", outcome.Error)
	}
}

func TestEndpointProberFirstAnswerWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/status" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	host, portStr, _ := net.SplitHostPort(u.Host)
	port, _ := strconv.Atoi(portStr)

	p := &EndpointProber{
		Address: host,
		Endpoints: []config.Endpoint{
			{Port: port, Path: "/status"},
			{Port: port, Path: "/"},
		},
		Client: srv.Client(),
	}
	outcome := p.Probe(context.Background())
	if !outcome.Success {
		t.Fatalf("expected success, got %q", outcome.Error)
	}
	if outcome.Method != models.MethodEndpoint {
		t.Errorf("expected endpoint method, got %s", outcome.Method)
	}
}

func TestEndpointProberServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	host, portStr, _ := net.SplitHostPort(u.Host)
	port, _ := strconv.Atoi(portStr)

	p := &EndpointProber{
		Address:   host,
		Endpoints: []config.Endpoint{{Port: port, Path: "/"}},
		Client:    srv.Client(),
	}
	outcome := p.Probe(context.Background())
	if outcome.Success {
		t.Fatal("5xx must not count as success")
	}
	if outcome.Error == "" {
		t.Error("expected status text as error descriptor")
	}
}

func TestEndpointProberAllUnreachable(t *testing.T) {
	p := &EndpointProber{
		Address:   "127.0.0.1",
		Endpoints: []config.Endpoint{{Port: 1, Path: "/"}},
		Client:    &http.Client{Timeout: 100 * time.Millisecond},
	}
	outcome := p.Probe(context.Background())
	if outcome.Success {
		t.Fatal("expected failure")
	}
	if outcome.Error != "all endpoints failed" {
		t.Errorf("unexpected error descriptor %q", outcome.Error)
	}
}
