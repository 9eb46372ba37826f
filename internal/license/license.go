// Package license loads the SPDX license catalog used to populate the
// license pickers. The catalog is advisory; a fetch failure degrades to an
// empty list and the editors fall back to free-text entry.
package license

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// DefaultURL is the published SPDX license list.
const DefaultURL = "https://raw.githubusercontent.com/spdx/license-list-data/main/json/licenses.json"

// Other is the sentinel picker entry for licenses outside the SPDX list.
const Other = "other"

// License is one SPDX catalog entry.
type License struct {
	LicenseID string `json:"licenseId"`
	Name      string `json:"name"`
}

// Catalog is a loaded license list.
type Catalog struct {
	Licenses []License `json:"licenses"`
}

// IDs returns the sorted license identifiers plus the "other" sentinel.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.Licenses)+1)
	for _, l := range c.Licenses {
		if l.LicenseID != "" {
			out = append(out, l.LicenseID)
		}
	}
	sort.Strings(out)
	return append(out, Other)
}

// Fetch downloads the catalog. Pass DefaultURL unless a mirror is configured.
func Fetch(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if url == "" {
		url = DefaultURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("license: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("license: fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("license: catalog fetch returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("license: read catalog: %w", err)
	}
	var cat Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return nil, fmt.Errorf("license: decode catalog: %w", err)
	}
	return &cat, nil
}
