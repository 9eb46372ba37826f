package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
}

func newTestClient(t *testing.T, status int, body string, rec *recordedRequest) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.method = r.Method
			rec.path = r.URL.Path
			rec.auth = r.Header.Get("Authorization")
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, Tokens: StaticToken("sekrit")})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestSubmitCollectionMethodSelection(t *testing.T) {
	tests := []struct {
		name       string
		editMode   bool
		wantMethod string
		wantPath   string
	}{
		{"create posts to root", false, http.MethodPost, "/collections"},
		{"edit puts to record", true, http.MethodPut, "/collections/landsat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recordedRequest
			c := newTestClient(t, 200, `{"id":"landsat"}`, &rec)

			_, err := c.SubmitCollection(context.Background(), model.Doc{"id": "landsat"}, tt.editMode)
			if err != nil {
				t.Fatalf("SubmitCollection: %v", err)
			}
			if rec.method != tt.wantMethod || rec.path != tt.wantPath {
				t.Fatalf("got %s %s, want %s %s", rec.method, rec.path, tt.wantMethod, tt.wantPath)
			}
			if rec.auth != "Bearer sekrit" {
				t.Fatalf("missing bearer header: %q", rec.auth)
			}
		})
	}
}

func TestSubmitItemMethodSelection(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, 200, `{"id":"scene-1"}`, &rec)

	_, err := c.SubmitItem(context.Background(), "landsat", model.Doc{"id": "scene-1"}, false)
	if err != nil {
		t.Fatalf("SubmitItem create: %v", err)
	}
	if rec.method != http.MethodPost || rec.path != "/collections/landsat/items" {
		t.Fatalf("create: got %s %s", rec.method, rec.path)
	}

	_, err = c.SubmitItem(context.Background(), "landsat", model.Doc{"id": "scene-1"}, true)
	if err != nil {
		t.Fatalf("SubmitItem edit: %v", err)
	}
	if rec.method != http.MethodPut || rec.path != "/collections/landsat/items/scene-1" {
		t.Fatalf("edit: got %s %s", rec.method, rec.path)
	}

	if _, err := c.SubmitItem(context.Background(), "", model.Doc{"id": "x"}, false); err == nil {
		t.Fatalf("expected error without a collection")
	}
}

func TestSubmitEditRequiresID(t *testing.T) {
	c := newTestClient(t, 200, `{}`, nil)
	if _, err := c.SubmitCollection(context.Background(), model.Doc{}, true); err == nil {
		t.Fatalf("expected error for edit without id")
	}
}

func TestListCollections(t *testing.T) {
	c := newTestClient(t, 200, `{"collections":[{"id":"a"},{"id":"b"}],"links":[]}`, nil)
	page, err := c.ListCollections(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("ListCollections: %v", err)
	}
	got := []string{}
	for _, col := range page.Collections {
		got = append(got, model.StringField(col, "id"))
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Fatalf("unexpected page (-want +got):\n%s", diff)
	}
}

func TestErrorProjection(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			"code with object descriptions",
			`{"detail":{"code":"E1","description":[{"msg":"bad id"},{"msg":"bad bbox"}]}}`,
			[]string{"E1: bad id", "E1: bad bbox"},
		},
		{
			"code with string description",
			`{"detail":{"code":"ConflictError","description":"collection already exists"}}`,
			[]string{"ConflictError: collection already exists"},
		},
		{
			"nested detail string",
			`{"detail":{"detail":"oops"}}`,
			[]string{"oops"},
		},
		{
			"bare detail string",
			`{"detail":"not found"}`,
			[]string{"not found"},
		},
		{
			"unparseable body falls back to raw",
			`<html>502 Bad Gateway</html>`,
			[]string{"<html>502 Bad Gateway</html>"},
		},
		{
			"empty body never projects empty",
			``,
			[]string{"request failed with status 422"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, 422, tt.body, nil)
			_, err := c.GetCollection(context.Background(), "x")
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if diff := cmp.Diff(tt.want, apiErr.Project()); diff != "" {
				t.Fatalf("projection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	c := newTestClient(t, 404, `{"detail":"Collection missing does not exist"}`, nil)
	_, err := c.GetCollection(context.Background(), "missing")
	var apiErr *Error
	if !errors.As(err, &apiErr) || !apiErr.NotFound() {
		t.Fatalf("expected 404 api error, got %v", err)
	}
}

func TestDeleteSendsNoBody(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, 204, ``, &rec)
	if err := c.DeleteItem(context.Background(), "landsat", "scene-1"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if rec.method != http.MethodDelete || rec.path != "/collections/landsat/items/scene-1" {
		t.Fatalf("got %s %s", rec.method, rec.path)
	}
}
