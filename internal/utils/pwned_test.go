package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsBreached(t *testing.T) {
	// SHA1("password") = 5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/range/5BAA6" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, "003D68EB55068C33ACE09247EE4C639306B:3\r\n")
		fmt.Fprint(w, "1E4C9B93F3F0682250B6CF8331B7EE68FD8:3861493\r\n")
		fmt.Fprint(w, "01330C689E5D64F660D6947A93AD634EF8F:1\r\n")
	}))
	defer srv.Close()

	c := NewPwnedClient(time.Second)
	c.BaseURL = srv.URL + "/range/"

	breached, err := c.IsBreached("password")
	if err != nil {
		t.Fatalf("IsBreached: %v", err)
	}
	if !breached {
		t.Fatal("expected breached=true for known password")
	}
}

func TestIsBreachedAbsentSuffix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "003D68EB55068C33ACE09247EE4C639306B:3\r\n")
	}))
	defer srv.Close()

	c := NewPwnedClient(time.Second)
	c.BaseURL = srv.URL + "/range/"

	breached, err := c.IsBreached("password")
	if err != nil {
		t.Fatalf("IsBreached: %v", err)
	}
	if breached {
		t.Fatal("expected breached=false when suffix absent")
	}
}

func TestIsBreachedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewPwnedClient(time.Second)
	c.BaseURL = srv.URL + "/range/"

	if _, err := c.IsBreached("password"); err == nil {
		t.Fatal("expected error on 503")
	}
}
