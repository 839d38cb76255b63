package ripedb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientFetch(t *testing.T) {
	const body = "inetnum: 10.0.0.0 - 10.0.0.255\nnetname: NET-A\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query-string"); got != "example org" {
			t.Errorf("query-string = %q, want %q", got, "example org")
		}
		if got := r.Header.Get("Accept"); got != "text/plain" {
			t.Errorf("Accept = %q, want text/plain", got)
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	got, err := c.Fetch(context.Background(), "example org")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got != body {
		t.Errorf("Fetch = %q, want %q", got, body)
	}
}

func TestClientFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background(), "x")
	if err == nil {
		t.Fatal("Fetch accepted a 500 response")
	}
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error is %T, want *FetchError", err)
	}
}

func TestClientFetchConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := NewClient(srv.URL, time.Second)
	_, err := c.Fetch(context.Background(), "x")
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error is %T (%v), want *FetchError", err, err)
	}
}
