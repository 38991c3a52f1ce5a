package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Kind selects the catalog wire format.
type Kind string

const (
	// KindREST is a flat JSON array of {"name", "id"} objects.
	KindREST Kind = "rest"
	// KindNexus is a Nexus repository search endpoint.
	KindNexus Kind = "nexus"
)

// DefaultConcurrency bounds parallel per-package version lookups.
const DefaultConcurrency = 4

// maxPages stops a misbehaving server that never ends pagination.
const maxPages = 1000

// Source produces the package list of one catalog.
type Source interface {
	// Fetch returns the catalog's packages. On failure it returns no
	// packages and an error wrapping ErrCatalogUnavailable.
	Fetch(ctx context.Context) ([]Package, error)
}

// Options describes a catalog endpoint.
type Options struct {
	Kind       Kind
	URL        string
	Repository string
	// Sort overrides the kind's default sort policy when set.
	Sort        SortPolicy
	Concurrency int
}

// ParseKind converts a config value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindREST:
		return KindREST, nil
	case KindNexus:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// DefaultSort is the sort policy used for a kind when none is configured.
func (k Kind) DefaultSort() SortPolicy {
	if k == KindNexus {
		return SortNumeric
	}
	return SortNone
}

// NewSource builds the Source for opts.
func NewSource(c *Client, opts Options) (Source, error) {
	if c == nil {
		c = NewClient()
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("catalog URL is empty")
	}
	if opts.Sort == "" {
		opts.Sort = opts.Kind.DefaultSort()
	}

	switch opts.Kind {
	case KindREST, "":
		return &RESTSource{client: c, url: opts.URL, sort: opts.Sort}, nil
	case KindNexus:
		if opts.Repository == "" {
			return nil, fmt.Errorf("nexus catalog %s: repository is empty", opts.URL)
		}
		n := opts.Concurrency
		if n <= 0 {
			n = DefaultConcurrency
		}
		return &NexusSource{
			client:      c,
			baseURL:     opts.URL,
			repository:  opts.Repository,
			sort:        opts.Sort,
			concurrency: n,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}
}

// RESTSource reads a flat array of objects whose "id" is the version.
type RESTSource struct {
	client *Client
	url    string
	sort   SortPolicy
}

type restObject struct {
	Name string     `json:"name"`
	ID   flexString `json:"id"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// Fetch implements Source.
func (s *RESTSource) Fetch(ctx context.Context) ([]Package, error) {
	var objects []restObject
	if err := s.client.getJSON(ctx, s.url, &objects); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, s.url, err)
	}

	records := make([]Record, len(objects))
	for i, o := range objects {
		records[i] = Record{Name: o.Name, Version: string(o.ID)}
	}

	pkgs := Aggregate(records)
	if s.sort != SortNone {
		for i := range pkgs {
			pkgs[i].Versions = s.sort.Sort(pkgs[i].Versions)
		}
	}
	return pkgs, nil
}

// NexusSource lists component names from a Nexus search endpoint, then
// looks up each name's versions with a second query.
type NexusSource struct {
	client      *Client
	baseURL     string
	repository  string
	sort        SortPolicy
	concurrency int

	// OnLookupError, when set, is told about each failed version lookup.
	// It is called from the lookup goroutines. The package is still
	// listed, with [NotAvailable].
	OnLookupError func(name string, err error)
}

type nexusPage struct {
	Items []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"items"`
	ContinuationToken *string `json:"continuationToken"`
}

// Fetch implements Source.
func (s *NexusSource) Fetch(ctx context.Context) ([]Package, error) {
	names, err := s.listNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, s.baseURL, err)
	}

	pkgs := make([]Package, len(names))
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for i, name := range names {
		pkgs[i].Name = name
		if name == Unknown {
			pkgs[i].Versions = []string{NotAvailable}
			continue
		}
		i, name := i, name
		g.Go(func() error {
			versions, err := s.versions(ctx, name)
			if err != nil && s.OnLookupError != nil {
				s.OnLookupError(name, err)
			}
			pkgs[i].Versions = versions
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, s.baseURL, err)
	}
	return pkgs, nil
}

// listNames returns distinct component names in first-seen order.
func (s *NexusSource) listNames(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var names []string

	err := s.eachPage(ctx, url.Values{"repository": {s.repository}}, func(p *nexusPage) {
		for _, item := range p.Items {
			name := item.Name
			if name == "" {
				name = Unknown
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	})
	return names, err
}

// versions returns the sorted versions of name, or [NotAvailable] together
// with the error when the lookup fails or finds nothing.
func (s *NexusSource) versions(ctx context.Context, name string) ([]string, error) {
	var raw []string
	params := url.Values{"repository": {s.repository}, "name": {name}}
	err := s.eachPage(ctx, params, func(p *nexusPage) {
		for _, item := range p.Items {
			raw = append(raw, item.Version)
		}
	})
	if err != nil {
		return []string{NotAvailable}, err
	}

	versions := dedupe(raw)
	if len(versions) == 0 {
		return []string{NotAvailable}, nil
	}
	return s.sort.Sort(versions), nil
}

func (s *NexusSource) eachPage(ctx context.Context, params url.Values, fn func(*nexusPage)) error {
	token := ""
	for n := 0; n < maxPages; n++ {
		if token != "" {
			params.Set("continuationToken", token)
		}
		endpoint, err := withQuery(s.baseURL, params)
		if err != nil {
			return err
		}

		var page nexusPage
		if err := s.client.getJSON(ctx, endpoint, &page); err != nil {
			return err
		}
		fn(&page)

		if page.ContinuationToken == nil || *page.ContinuationToken == "" || *page.ContinuationToken == token {
			return nil
		}
		token = *page.ContinuationToken
	}
	return fmt.Errorf("pagination did not end after %d pages", maxPages)
}
