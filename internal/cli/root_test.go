package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("STAC_ADMIN_CONFIG_DIR", t.TempDir())

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCollectionsCreateDryRun(t *testing.T) {
	draft := `{"id": "landsat", "description": "Landsat scenes", "title": "Landsat"}`
	out, _, err := runCommand(t, draft,
		"collections", "create", "--dry-run", "--api", "https://stac.example.com")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var payload model.Doc
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if payload["id"] != "landsat" {
		t.Fatalf("draft id lost: %v", payload["id"])
	}
	// Template defaults fill the fields the draft omitted.
	if payload["stac_version"] != model.StacVersion {
		t.Fatalf("missing template default: %v", payload["stac_version"])
	}
	if _, ok := payload["extent"]; !ok {
		t.Fatalf("missing extent default")
	}
}

func TestCollectionsCreateValidation(t *testing.T) {
	// Missing description must fail before any network traffic.
	_, errOut, err := runCommand(t, `{"id": "landsat"}`,
		"collections", "create", "--dry-run", "--api", "https://stac.example.com")
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(errOut, "Enter a collection description.") {
		t.Fatalf("expected field message on stderr, got: %s", errOut)
	}
}

func TestCollectionsCreateRejectsMalformedJSON(t *testing.T) {
	_, _, err := runCommand(t, `{"id": `,
		"collections", "create", "--dry-run", "--api", "https://stac.example.com")
	if err == nil || !strings.Contains(err.Error(), "invalid JSON") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestItemsCreateDryRunDerivesLinks(t *testing.T) {
	draft := `{"id": "scene-1"}`
	out, _, err := runCommand(t, draft,
		"items", "create", "--dry-run", "--collection", "landsat",
		"--api", "https://stac.example.com")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var payload model.Doc
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if payload["collection"] != "landsat" {
		t.Fatalf("collection not set: %v", payload["collection"])
	}
	self := ""
	for _, l := range payload["links"].([]any) {
		link := l.(map[string]any)
		if link["rel"] == "self" {
			self = link["href"].(string)
		}
	}
	want := "https://stac.example.com/collections/landsat/items/scene-1"
	if self != want {
		t.Fatalf("self link %q, want %q", self, want)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STAC_ADMIN_CONFIG_DIR", dir)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "set", "apiUrl", "https://stac.example.com"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config set: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(b), "https://stac.example.com") {
		t.Fatalf("config missing value: %s", b)
	}
}

func TestYAMLOutputFormat(t *testing.T) {
	draft := `{"id": "landsat", "description": "d"}`
	out, _, err := runCommand(t, draft,
		"collections", "create", "--dry-run", "--format", "yaml",
		"--api", "https://stac.example.com")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "id: landsat") {
		t.Fatalf("expected YAML output, got: %s", out)
	}
}
