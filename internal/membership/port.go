package membership

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/honeycarbs/alumni-jobs/pkg/kvstore"
)

// Fixed port keys
const (
	KeySaved   = "savedJobs"
	KeyApplied = "appliedJobs"
)

// Port persists membership sets between sessions. Writes are last-write-wins.
type Port interface {
	Get(key string) ([]string, error)
	Set(key string, ids []string) error
	Merge(key string, ids []string) error
}

var (
	_ Port = (*MemoryPort)(nil)
	_ Port = (*KVPort)(nil)
)

// MemoryPort keeps sets in process memory
type MemoryPort struct {
	mu   sync.Mutex
	data map[string][]string
}

// NewMemoryPort returns an empty MemoryPort
func NewMemoryPort() *MemoryPort {
	return &MemoryPort{data: make(map[string][]string)}
}

func (p *MemoryPort) Get(key string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.data[key]...), nil
}

func (p *MemoryPort) Set(key string, ids []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = lo.Uniq(ids)
	return nil
}

func (p *MemoryPort) Merge(key string, ids []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = lo.Uniq(append(append([]string(nil), p.data[key]...), ids...))
	return nil
}

const kvBucket = "membership"

// KVPort persists sets as JSON arrays in a bbolt file, one namespace per user
type KVPort struct {
	store     *kvstore.Store
	namespace string
}

// NewKVPort scopes a kvstore to one user
func NewKVPort(store *kvstore.Store, namespace string) (*KVPort, error) {
	if store == nil {
		return nil, fmt.Errorf("membership: kv store is required")
	}
	if namespace == "" {
		return nil, fmt.Errorf("membership: namespace is required")
	}
	return &KVPort{store: store, namespace: namespace}, nil
}

func (p *KVPort) key(k string) string {
	return p.namespace + "/" + k
}

func (p *KVPort) Get(key string) ([]string, error) {
	raw, err := p.store.Get(kvBucket, p.key(key))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeIDs(raw)
}

func (p *KVPort) Set(key string, ids []string) error {
	raw, err := json.Marshal(lo.Uniq(ids))
	if err != nil {
		return fmt.Errorf("membership: encode %s: %w", key, err)
	}
	return p.store.Put(kvBucket, p.key(key), raw)
}

func (p *KVPort) Merge(key string, ids []string) error {
	return p.store.Update(kvBucket, p.key(key), func(cur []byte) ([]byte, error) {
		existing := []string{}
		if cur != nil {
			decoded, err := decodeIDs(cur)
			if err != nil {
				return nil, err
			}
			existing = decoded
		}
		return json.Marshal(lo.Uniq(append(existing, ids...)))
	})
}

func decodeIDs(raw []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("membership: decode ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
