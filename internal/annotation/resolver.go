// SPDX-License-Identifier: Apache-2.0

package annotation

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Map types reported for an annotation's resource.
const (
	MapTypeFlatmap  = "Flatmap"
	MapTypeScaffold = "Scaffold"
)

const featureLabelPrefix = "Feature "

// MapDescriptor is one entry of the map server listing.
type MapDescriptor struct {
	UUID      string
	Taxon     string
	Name      string
	Describes string
	Sckan     string
}

// MapCatalog lists the maps published by a map server.
type MapCatalog interface {
	Maps(ctx context.Context) ([]MapDescriptor, error)
}

// ResourceFetcher reads the taxon advertised by an individual resource URL.
type ResourceFetcher interface {
	ResourceTaxon(ctx context.Context, resourceURL string) (string, error)
}

// ResourceMetadata is what is known about the map or scaffold an annotation
// was made on. Empty fields are unresolved.
type ResourceMetadata struct {
	MapType   string
	Taxon     string
	Name      string
	Describes string
	Sckan     string
}

// ResolverConfig holds the server locations the Resolver works against.
type ResolverConfig struct {
	// MapServerURL is the base URL of the flatmap server. Resources containing
	// it are flatmaps; everything else is a scaffold.
	MapServerURL string
	// ResourceSeparator joins MapServerURL and a bare resource identifier.
	ResourceSeparator string
	// AnnotationViewURL is the view link template. "{id}" is replaced by the
	// annotation id, otherwise the id is appended.
	AnnotationViewURL string
	// ResolveResourceTaxon enables a GET of scaffold resource URLs to read
	// their taxon.
	ResolveResourceTaxon bool
}

// ReferenceCache memoizes everything the Resolver looks up during one run.
// Nothing is ever evicted.
type ReferenceCache struct {
	resources  map[string]ResourceMetadata
	maps       map[string]MapDescriptor
	mapsLoaded bool
	features   map[string][]string
}

// NewReferenceCache returns an empty cache.
func NewReferenceCache() *ReferenceCache {
	return &ReferenceCache{
		resources: make(map[string]ResourceMetadata),
		maps:      make(map[string]MapDescriptor),
	}
}

// Len returns the number of resolved resources.
func (c *ReferenceCache) Len() int {
	return len(c.resources)
}

type options struct {
	catalog MapCatalog
	fetcher ResourceFetcher
	logger  *zap.Logger
}

// Option configures a Resolver or Pipeline.
type Option func(*options)

// WithMapCatalog sets the map server used for flatmap metadata.
func WithMapCatalog(catalog MapCatalog) Option {
	return func(o *options) { o.catalog = catalog }
}

// WithResourceFetcher sets the fetcher used for scaffold resource taxa.
func WithResourceFetcher(fetcher ResourceFetcher) Option {
	return func(o *options) { o.fetcher = fetcher }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Resolver resolves references found in entries: feature labels to the
// annotations made on that feature, and resources to map metadata.
type Resolver struct {
	config  ResolverConfig
	entries []Entry
	catalog MapCatalog
	fetcher ResourceFetcher
	cache   *ReferenceCache
	logger  *zap.Logger
}

// NewResolver creates a Resolver over the full set of downloaded entries with
// a fresh cache.
func NewResolver(config ResolverConfig, entries []Entry, opts ...Option) *Resolver {
	o := buildOptions(opts)
	return &Resolver{
		config:  config,
		entries: entries,
		catalog: o.catalog,
		fetcher: o.fetcher,
		cache:   NewReferenceCache(),
		logger:  o.logger,
	}
}

// Cache exposes the resolver's cache.
func (r *Resolver) Cache() *ReferenceCache {
	return r.cache
}

// AnnotationURL builds the view link for an annotation id.
func (r *Resolver) AnnotationURL(annotationID string) string {
	if strings.Contains(r.config.AnnotationViewURL, "{id}") {
		return strings.ReplaceAll(r.config.AnnotationViewURL, "{id}", annotationID)
	}
	return r.config.AnnotationViewURL + annotationID
}

// FeatureAnnotations returns the view links of every annotation made on the
// feature named by label ("Feature <id>"), in input order.
func (r *Resolver) FeatureAnnotations(label string) []string {
	target := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(label), featureLabelPrefix))
	if target == "" {
		return nil
	}

	if r.cache.features == nil {
		r.cache.features = make(map[string][]string)
		for _, entry := range r.entries {
			itemID, ok := entry.String("item", "id")
			if !ok {
				continue
			}
			annotationID, ok := entry.String("annotationId")
			if !ok {
				continue
			}
			r.cache.features[itemID] = append(r.cache.features[itemID], r.AnnotationURL(annotationID))
		}
	}
	return r.cache.features[target]
}

// ResourceMetadata classifies resource and resolves the metadata of the map it
// names. It reports false when resource is empty. Lookup failures leave the
// corresponding fields empty.
func (r *Resolver) ResourceMetadata(ctx context.Context, resource string) (ResourceMetadata, bool) {
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return ResourceMetadata{}, false
	}
	if md, ok := r.cache.resources[resource]; ok {
		return md, true
	}

	full := r.expandResource(resource)
	var md ResourceMetadata
	if r.isFlatmap(full) {
		md.MapType = MapTypeFlatmap
		if d, ok := r.mapDescriptor(ctx, resourceID(full)); ok {
			md.Taxon = d.Taxon
			md.Name = d.Name
			md.Describes = d.Describes
			md.Sckan = d.Sckan
		}
	} else {
		md.MapType = MapTypeScaffold
		if r.config.ResolveResourceTaxon && r.fetcher != nil {
			taxon, err := r.fetcher.ResourceTaxon(ctx, full)
			if err != nil {
				r.logger.Warn("resource taxon lookup failed", zap.String("resource", full), zap.Error(err))
			} else {
				md.Taxon = taxon
			}
		}
	}

	r.cache.resources[resource] = md
	return md, true
}

// expandResource turns a bare identifier into a full map server path.
func (r *Resolver) expandResource(resource string) string {
	if strings.Contains(resource, "://") || r.config.MapServerURL == "" {
		return resource
	}
	return strings.TrimSuffix(r.config.MapServerURL, "/") + r.config.ResourceSeparator + strings.TrimPrefix(resource, "/")
}

func (r *Resolver) isFlatmap(resource string) bool {
	base := strings.TrimSuffix(r.config.MapServerURL, "/")
	return base != "" && strings.Contains(resource, base)
}

func (r *Resolver) mapDescriptor(ctx context.Context, id string) (MapDescriptor, bool) {
	if !r.cache.mapsLoaded {
		r.cache.mapsLoaded = true
		if r.catalog != nil {
			maps, err := r.catalog.Maps(ctx)
			if err != nil {
				r.logger.Warn("map server listing failed", zap.String("url", r.config.MapServerURL), zap.Error(err))
			}
			for _, m := range maps {
				r.cache.maps[normalizeID(m.UUID)] = m
			}
			r.logger.Debug("map server listing loaded", zap.Int("maps", len(r.cache.maps)))
		}
	}
	d, ok := r.cache.maps[normalizeID(id)]
	return d, ok
}

// resourceID returns the last path segment of a resource, or the whole string
// when it has no separator.
func resourceID(resource string) string {
	if i := strings.IndexAny(resource, "?#"); i >= 0 {
		resource = resource[:i]
	}
	resource = strings.TrimRight(resource, "/")
	if i := strings.LastIndex(resource, "/"); i >= 0 {
		return resource[i+1:]
	}
	return resource
}

// normalizeID canonicalizes UUIDs so that listing keys and resource suffixes
// match regardless of case or braces.
func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}
