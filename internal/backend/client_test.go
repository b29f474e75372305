package backend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ip-frontend/internal/geo"
	"ip-frontend/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Use(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func TestLookupSuccess(t *testing.T) {
	var hits int32
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		gotPath = r.URL.Path
		w.Header().Set("content-type", "application/json")
		_, _ = io.WriteString(w, `{"country_name":"Testland","isp":"TestISP","cached":"False"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	res, err := c.Lookup(context.Background(), "1.2.3.4")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if hits != 1 || gotPath != "/ip/1.2.3.4" {
		t.Fatalf("hits=%d path=%q", hits, gotPath)
	}
	if res.CountryName != "Testland" || res.ISP != "TestISP" || res.Cached != "False" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.ContinentName != geo.Unknown || res.APIServer != geo.Unknown {
		t.Fatalf("missing fields not defaulted: %+v", res)
	}
}

func TestLookupStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Lookup(context.Background(), "1.2.3.4")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected StatusError 503, got %v", err)
	}
}

func TestLookupDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>not json</html>")
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Lookup(context.Background(), "1.2.3.4")
	var se *StatusError
	if err == nil || errors.As(err, &se) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestLookupNullBody(t *testing.T) {
	for _, body := range []string{"null", " null\n"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}))
		_, err := New(srv.URL, time.Second).Lookup(context.Background(), "1.2.3.4")
		srv.Close()
		var se *StatusError
		if err == nil || errors.As(err, &se) {
			t.Fatalf("body %q: expected decode error, got %v", body, err)
		}
		if !strings.Contains(err.Error(), "not a JSON object") {
			t.Errorf("body %q: error = %q", body, err)
		}
	}
}

func TestLookupTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond).Lookup(context.Background(), "1.2.3.4")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var ne net.Error
	if !errors.As(err, &ne) || !ne.Timeout() {
		t.Fatalf("expected timeout net.Error, got %v", err)
	}
}

func TestLookupConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	_, err = New("http://"+addr, time.Second).Lookup(context.Background(), "1.2.3.4")
	if err == nil {
		t.Fatal("expected connection error")
	}
}

func TestURL(t *testing.T) {
	c := New("http://api:8081/", time.Second)
	if got := c.URL("999.999.999.999"); got != "http://api:8081/ip/999.999.999.999" {
		t.Fatalf("URL = %q", got)
	}
}
