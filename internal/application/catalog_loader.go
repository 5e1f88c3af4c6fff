package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/acampos/votematch/internal/domain"
)

// CatalogLoader provides YAML parsing, validation, and caching for
// catalog documents, transforming declarative files into immutable
// domain catalogs. Identical documents (after normalization) share one
// compiled catalog through SHA256-based caching, and singleflight
// prevents duplicate compilation when concurrent reloads race.
type CatalogLoader struct {
	// validator performs struct field validation for catalog documents.
	validator *validator.Validate
	// cache stores compiled catalogs indexed by SHA256 hash of the
	// normalized document. Catalogs are immutable, so sharing is safe.
	cache map[string]*domain.Catalog
	// cacheMu provides thread-safe access to the cache map.
	cacheMu sync.RWMutex
	// sf prevents duplicate compilation when multiple goroutines load
	// the same document simultaneously.
	sf singleflight.Group
}

// NewCatalogLoader creates a catalog loader with the custom validators
// registered and an empty cache.
func NewCatalogLoader() (*CatalogLoader, error) {
	v := validator.New()

	if err := RegisterCatalogValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	return &CatalogLoader{
		validator: v,
		cache:     make(map[string]*domain.Catalog),
	}, nil
}

// LoadFromFile loads and compiles a catalog from a YAML file.
func (cl *CatalogLoader) LoadFromFile(ctx context.Context, path string) (*domain.Catalog, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return cl.LoadFromBytes(ctx, data)
}

// LoadFromReader loads and compiles a catalog from an io.Reader.
func (cl *CatalogLoader) LoadFromReader(ctx context.Context, r io.Reader) (*domain.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return cl.LoadFromBytes(ctx, data)
}

// LoadFromBytes parses, validates, and compiles a catalog document.
// Semantically identical documents return the shared cached catalog.
func (cl *CatalogLoader) LoadFromBytes(_ context.Context, data []byte) (*domain.Catalog, error) {
	doc, err := cl.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Hash the normalized document, not the raw bytes, so formatting
	// differences do not defeat the cache.
	hash, err := cl.calculateDocumentHash(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := cl.sf.Do(hash, func() (any, error) {
		// Check the cache inside singleflight to close the race between
		// the cache check and group execution.
		if catalog, ok := cl.getCachedCatalog(hash); ok {
			return catalog, nil
		}

		if err := cl.validator.Struct(doc); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		catalog, err := domain.NewCatalog(doc.toDomain())
		if err != nil {
			return nil, fmt.Errorf("failed to build catalog: %w", err)
		}

		cl.cacheCatalog(hash, catalog)

		return catalog, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Catalog), nil
}

// parseYAML decodes a catalog document in strict mode so configuration
// typos surface as errors instead of silently dropped fields.
func (cl *CatalogLoader) parseYAML(data []byte) (*CatalogDocument, error) {
	var doc CatalogDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &doc, nil
}

// calculateDocumentHash computes the SHA256 hash of a normalized
// document so whitespace and key-order differences hash identically.
func (cl *CatalogLoader) calculateDocumentHash(doc *CatalogDocument) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode document for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

// getCachedCatalog retrieves a previously compiled catalog by hash.
// Safe for concurrent use.
func (cl *CatalogLoader) getCachedCatalog(hash string) (*domain.Catalog, bool) {
	cl.cacheMu.RLock()
	defer cl.cacheMu.RUnlock()

	catalog, ok := cl.cache[hash]
	return catalog, ok
}

// cacheCatalog stores a compiled catalog under its document hash.
// Safe for concurrent use.
func (cl *CatalogLoader) cacheCatalog(hash string, catalog *domain.Catalog) {
	cl.cacheMu.Lock()
	defer cl.cacheMu.Unlock()

	cl.cache[hash] = catalog
}
