package source

import (
	"fmt"
	"net/url"
	"strings"

	"newsarchive/internal/config"
	"newsarchive/internal/domain"
)

// Registry holds the configured feed sources in the order they were
// declared. It is immutable after construction; the pipeline only ever
// iterates it.
type Registry struct {
	sources []domain.FeedSource
}

// NewRegistry validates the configured source list and freezes it. An
// unusable source list is a configuration error, the one class of failure
// that aborts a run up front.
func NewRegistry(cfg []config.SourceConfig) (*Registry, error) {
	if len(cfg) == 0 {
		return nil, fmt.Errorf("no feed sources configured")
	}

	sources := make([]domain.FeedSource, 0, len(cfg))
	for i, sc := range cfg {
		name := strings.TrimSpace(sc.Name)
		if name == "" {
			return nil, fmt.Errorf("source %d: name must not be empty", i)
		}
		if strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("source %s: name is used as a directory segment and cannot contain path separators", name)
		}

		parsed, err := url.Parse(sc.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("source %s: invalid feed url %q", name, sc.URL)
		}

		sources = append(sources, domain.FeedSource{Name: name, URL: sc.URL})
	}

	return &Registry{sources: sources}, nil
}

// Sources returns the ordered source list.
func (r *Registry) Sources() []domain.FeedSource {
	return r.sources
}
