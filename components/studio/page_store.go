package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bayup/go-studio/pkg/kvstore"
)

// InMemoryPageStore keeps pages in process memory. Useful for tests and previews.
type InMemoryPageStore struct {
	mu    sync.RWMutex
	pages map[SessionKey][]byte
}

// NewInMemoryPageStore returns an empty store.
func NewInMemoryPageStore() *InMemoryPageStore {
	return &InMemoryPageStore{pages: map[SessionKey][]byte{}}
}

// SavePage implements PageStore.
func (s *InMemoryPageStore) SavePage(_ context.Context, tenantID string, page PageName, schema PageSchema) error {
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("studio: encode page %s: %w", page, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[SessionKey{TenantID: tenantID, Page: page}] = raw
	return nil
}

// LoadPage implements PageStore.
func (s *InMemoryPageStore) LoadPage(_ context.Context, tenantID string, page PageName) (PageSchema, error) {
	s.mu.RLock()
	raw, ok := s.pages[SessionKey{TenantID: tenantID, Page: page}]
	s.mu.RUnlock()
	if !ok {
		return PageSchema{}, fmt.Errorf("%w: %s/%s", ErrPageNotFound, tenantID, page)
	}
	var schema PageSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return PageSchema{}, fmt.Errorf("studio: decode page %s: %w", page, err)
	}
	return schema, nil
}

// KVPageStore persists pages as JSON documents in a key/value store.
type KVPageStore struct {
	store  kvstore.Store
	prefix string
}

// NewKVPageStore stores pages under "pages:<tenant>:<page>".
func NewKVPageStore(store kvstore.Store) *KVPageStore {
	return &KVPageStore{store: store, prefix: "pages:"}
}

func (s *KVPageStore) key(tenantID string, page PageName) string {
	return s.prefix + SessionKey{TenantID: tenantID, Page: page}.String()
}

// SavePage implements PageStore.
func (s *KVPageStore) SavePage(ctx context.Context, tenantID string, page PageName, schema PageSchema) error {
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("studio: encode page %s: %w", page, err)
	}
	return s.store.Set(ctx, s.key(tenantID, page), raw)
}

// LoadPage implements PageStore.
func (s *KVPageStore) LoadPage(ctx context.Context, tenantID string, page PageName) (PageSchema, error) {
	raw, ok, err := s.store.Get(ctx, s.key(tenantID, page))
	if err != nil {
		return PageSchema{}, err
	}
	if !ok {
		return PageSchema{}, fmt.Errorf("%w: %s/%s", ErrPageNotFound, tenantID, page)
	}
	var schema PageSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return PageSchema{}, fmt.Errorf("studio: decode page %s: %w", page, err)
	}
	return schema, nil
}

// Pages lists the saved pages of a tenant.
func (s *KVPageStore) Pages(ctx context.Context, tenantID string) ([]PageName, error) {
	prefix := s.prefix + tenantID + "::"
	keys, err := s.store.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	pages := make([]PageName, 0, len(keys))
	for _, key := range keys {
		pages = append(pages, PageName(key[len(prefix):]))
	}
	return pages, nil
}
