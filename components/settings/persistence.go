package settings

import (
	"context"
	"sync"
)

// Persister is the external settings store. Save receives a full domain
// snapshot; Load returns ErrNotFound when nothing was stored yet.
type Persister interface {
	Save(ctx context.Context, domainID string, snapshot Domain) error
	Load(ctx context.Context, domainID string) (Domain, error)
}

// InMemoryPersister keeps snapshots in process memory.
type InMemoryPersister struct {
	mu    sync.RWMutex
	data  map[string]Domain
	saves map[string]int
	fail  map[string]error
}

// NewInMemoryPersister creates an empty persister.
func NewInMemoryPersister() *InMemoryPersister {
	return &InMemoryPersister{
		data:  make(map[string]Domain),
		saves: make(map[string]int),
		fail:  make(map[string]error),
	}
}

// Save stores a copy of the snapshot.
func (p *InMemoryPersister) Save(ctx context.Context, domainID string, snapshot Domain) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail[domainID]; err != nil {
		return err
	}
	p.data[domainID] = snapshot.Clone()
	p.saves[domainID]++
	return nil
}

// Load returns a copy of the stored snapshot.
func (p *InMemoryPersister) Load(ctx context.Context, domainID string) (Domain, error) {
	if err := ctx.Err(); err != nil {
		return Domain{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	domain, ok := p.data[domainID]
	if !ok {
		return Domain{}, ErrNotFound
	}
	return domain.Clone(), nil
}

// FailWith makes every save of domainID return err until cleared with nil.
func (p *InMemoryPersister) FailWith(domainID string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.fail, domainID)
		return
	}
	p.fail[domainID] = err
}

// SaveCount reports how many successful saves domainID received.
func (p *InMemoryPersister) SaveCount(domainID string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.saves[domainID]
}
