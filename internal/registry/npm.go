package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// DefaultNPMRegistry is the public npm registry endpoint.
const DefaultNPMRegistry = "https://registry.npmjs.org"

// npmClient looks up package names on an npm registry.
type npmClient struct {
	opts options
}

// NewNPMClient creates a Client for the npm registry.
func NewNPMClient(opts ...Option) Client {
	o := newOptions(opts...)
	if o.baseURL == "" {
		o.baseURL = DefaultNPMRegistry
	}
	return &npmClient{opts: o}
}

// Ecosystem returns model.EcosystemNPM.
func (c *npmClient) Ecosystem() model.Ecosystem {
	return model.EcosystemNPM
}

// npmPackument is the subset of the npm registry package document we read.
type npmPackument struct {
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
}

// Lookup queries the npm registry for the exact package name.
// Scoped names ("@acme/utils") are path-escaped the way the registry
// expects ("@acme%2Futils").
func (c *npmClient) Lookup(ctx context.Context, name string) (Result, error) {
	endpoint := fmt.Sprintf("%s/%s", c.opts.baseURL, url.PathEscape(name))

	body, status, err := getJSON(ctx, c.opts, endpoint)
	if err != nil {
		return Result{}, fmt.Errorf("npm lookup for %s failed: %w", name, err)
	}
	if status == http.StatusNotFound {
		return Result{Status: model.StatusNotFound}, nil
	}

	var doc npmPackument
	if err := json.Unmarshal(body, &doc); err != nil {
		return Result{}, fmt.Errorf("npm lookup for %s returned unparseable document: %w", name, err)
	}

	versions := make([]string, 0, len(doc.Versions))
	for v := range doc.Versions {
		versions = append(versions, v)
	}
	sort.Strings(versions)

	return Result{
		Status:   model.StatusExists,
		Latest:   doc.DistTags["latest"],
		Versions: versions,
	}, nil
}
