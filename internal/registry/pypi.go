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

// DefaultPyPIRegistry is the public PyPI endpoint.
const DefaultPyPIRegistry = "https://pypi.org"

// pypiClient looks up package names on the PyPI JSON API.
type pypiClient struct {
	opts options
}

// NewPyPIClient creates a Client for PyPI.
func NewPyPIClient(opts ...Option) Client {
	o := newOptions(opts...)
	if o.baseURL == "" {
		o.baseURL = DefaultPyPIRegistry
	}
	return &pypiClient{opts: o}
}

// Ecosystem returns model.EcosystemPyPI.
func (c *pypiClient) Ecosystem() model.Ecosystem {
	return model.EcosystemPyPI
}

// pypiProject is the subset of the PyPI JSON API response we read.
type pypiProject struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	Releases map[string]json.RawMessage `json:"releases"`
}

// Lookup queries the PyPI JSON API for the exact project name.
// PyPI itself normalizes names, so "Acme_Lib" and "acme-lib" resolve to
// the same project.
func (c *pypiClient) Lookup(ctx context.Context, name string) (Result, error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", c.opts.baseURL, url.PathEscape(name))

	body, status, err := getJSON(ctx, c.opts, endpoint)
	if err != nil {
		return Result{}, fmt.Errorf("pypi lookup for %s failed: %w", name, err)
	}
	if status == http.StatusNotFound {
		return Result{Status: model.StatusNotFound}, nil
	}

	var doc pypiProject
	if err := json.Unmarshal(body, &doc); err != nil {
		return Result{}, fmt.Errorf("pypi lookup for %s returned unparseable document: %w", name, err)
	}

	versions := make([]string, 0, len(doc.Releases))
	for v := range doc.Releases {
		versions = append(versions, v)
	}
	sort.Strings(versions)

	return Result{
		Status:   model.StatusExists,
		Latest:   doc.Info.Version,
		Versions: versions,
	}, nil
}
