package pending

import (
	"context"
	"sync"
	"time"
)

// MemoryStore : implémentation mémoire, sûre en concurrence, destinée au
// mono-processus et aux tests. Get rend les entrées telles quelles, y
// compris expirées : l'appelant tranche via Expiree, et le balayage
// périodique (PurgeExpired) finit par les retirer.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Registration
	now     func() time.Time // substituable en test
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Registration),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, email string) (*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.entries[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, email string, reg *Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *reg
	s.entries[email] = &cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

// PurgeExpired retire les inscriptions dont le code a expiré et renvoie
// leur nombre. Appelé par le job périodique.
func (s *MemoryStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for email, reg := range s.entries {
		if reg.Expiree(now) {
			delete(s.entries, email)
			n++
		}
	}
	return n
}
