package checker

import (
	"context"
	"fmt"
	"log/slog"

	npm "github.com/aquasecurity/go-npm-version/pkg"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"github.com/NordCoderd/sbomconfusion/internal/model"
	"github.com/NordCoderd/sbomconfusion/internal/registry"
)

// Checker maps package entries to findings using registry lookups.
type Checker struct {
	// clients holds one registry client per supported ecosystem.
	clients map[model.Ecosystem]registry.Client

	// isInternal reports whether a package name matches the configured
	// internal naming convention. May be nil when no prefixes are set.
	isInternal func(name string) bool

	// logger receives per-package lookup diagnostics.
	logger *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithClient registers a registry client for its ecosystem.
func WithClient(client registry.Client) Option {
	return func(c *Checker) {
		c.clients[client.Ecosystem()] = client
	}
}

// WithInternalMatcher sets the internal package name matcher.
func WithInternalMatcher(fn func(name string) bool) Option {
	return func(c *Checker) {
		c.isInternal = fn
	}
}

// WithLogger sets the logger for lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// New creates a Checker. Without WithClient options it classifies every
// entry as unknown, which is only useful in tests.
func New(opts ...Option) *Checker {
	c := &Checker{
		clients: make(map[model.Ecosystem]registry.Client),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check classifies every entry, in order, and returns exactly one finding
// per entry. A failed lookup is recorded in its finding and the loop
// continues; only context cancellation aborts the run early.
func (c *Checker) Check(ctx context.Context, entries []model.PackageEntry) ([]model.Finding, error) {
	findings := make([]model.Finding, 0, len(entries))

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return findings, ctx.Err()
		default:
		}

		findings = append(findings, c.checkOne(ctx, entry))
	}

	return findings, nil
}

// checkOne classifies a single entry.
func (c *Checker) checkOne(ctx context.Context, entry model.PackageEntry) model.Finding {
	client, ok := c.clients[entry.Ecosystem]
	if !ok {
		c.logger.Debug("no registry client", "package", entry.Name, "ecosystem", entry.Ecosystem)
		return model.Finding{
			Package: entry,
			Status:  model.StatusLookupError,
			Risk:    model.RiskUnknown,
			Note:    fmt.Sprintf("no registry client for ecosystem %q", entry.Ecosystem),
		}
	}

	result, err := client.Lookup(ctx, entry.Name)
	if err != nil {
		c.logger.Warn("registry lookup failed", "package", entry.Name, "ecosystem", entry.Ecosystem, "error", err)
		return model.Finding{
			Package: entry,
			Status:  model.StatusLookupError,
			Risk:    model.RiskUnknown,
			Note:    err.Error(),
		}
	}

	if result.Status == model.StatusNotFound {
		c.logger.Debug("package not claimed publicly", "package", entry.Name, "ecosystem", entry.Ecosystem)
		return model.Finding{
			Package: entry,
			Status:  model.StatusNotFound,
			Risk:    model.RiskPossibleConfusion,
			Note:    "name is not claimed in the public registry",
		}
	}

	// The name exists publicly. That is the expected case for open source
	// dependencies, but an internal-looking name claimed by someone else
	// is exactly what a confusion attack leaves behind.
	if c.isInternal != nil && c.isInternal(entry.Name) {
		return model.Finding{
			Package: entry,
			Status:  model.StatusExists,
			Risk:    model.RiskPossibleConfusion,
			Note:    "internal name prefix is claimed in the public registry",
		}
	}

	return model.Finding{
		Package: entry,
		Status:  model.StatusExists,
		Risk:    model.RiskNone,
		Note:    versionNote(entry, result),
	}
}

// versionNote reports when the declared version is absent from the public
// registry. This stays a note rather than a risk escalation: unpublished
// versions have benign explanations (yanked releases, private mirrors)
// and existence is the only signal the lookup actually proves.
func versionNote(entry model.PackageEntry, result registry.Result) string {
	if entry.Version == "" || len(result.Versions) == 0 {
		return ""
	}
	for _, v := range result.Versions {
		if v == entry.Version {
			return ""
		}
	}

	if newerThanLatest(entry, result.Latest) {
		return fmt.Sprintf("declared version %s is newer than the public latest %s", entry.Version, result.Latest)
	}
	return fmt.Sprintf("declared version %s is not published publicly (latest %s)", entry.Version, result.Latest)
}

// newerThanLatest compares the declared version against the registry's
// latest using ecosystem version semantics. Unparseable versions compare
// as not-newer.
func newerThanLatest(entry model.PackageEntry, latest string) bool {
	if latest == "" {
		return false
	}

	switch entry.Ecosystem {
	case model.EcosystemNPM:
		declared, err := npm.NewVersion(entry.Version)
		if err != nil {
			return false
		}
		public, err := npm.NewVersion(latest)
		if err != nil {
			return false
		}
		return declared.GreaterThan(public)
	case model.EcosystemPyPI:
		declared, err := pep440.Parse(entry.Version)
		if err != nil {
			return false
		}
		public, err := pep440.Parse(latest)
		if err != nil {
			return false
		}
		return declared.GreaterThan(public)
	default:
		return false
	}
}
