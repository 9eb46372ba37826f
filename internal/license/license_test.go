package license

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFetchAndIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"licenses":[
			{"licenseId":"MIT","name":"MIT License"},
			{"licenseId":"Apache-2.0","name":"Apache License 2.0"},
			{"licenseId":"CC-BY-4.0","name":"Creative Commons Attribution 4.0"}
		]}`))
	}))
	defer srv.Close()

	cat, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := []string{"Apache-2.0", "CC-BY-4.0", "MIT", "other"}
	if diff := cmp.Diff(want, cat.IDs()); diff != "" {
		t.Fatalf("unexpected IDs (-want +got):\n%s", diff)
	}
}

func TestFetchFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Fatalf("expected error on 502")
	}
}

func TestEmptyCatalogStillOffersOther(t *testing.T) {
	cat := &Catalog{}
	if diff := cmp.Diff([]string{"other"}, cat.IDs()); diff != "" {
		t.Fatalf("unexpected IDs (-want +got):\n%s", diff)
	}
}
