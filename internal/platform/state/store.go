package state

import (
	"context"
	"sync"

	hclog "github.com/hashicorp/go-hclog"
)

// Backend reads and writes the encoded document. Load returns a nil payload
// when nothing has been persisted yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
	Close() error
}

type txKey struct{}

// Store serialises every read-modify-write of the document behind one mutex
// and persists after each successful outermost transaction. Persistence
// failures are logged and never fail the caller: the in-memory document
// stays authoritative and the next write retries.
type Store struct {
	mu      sync.Mutex
	backend Backend
	log     hclog.Logger
	doc     Document
	dirty   bool
}

// Open loads the document from backend. A missing, unreadable or corrupt
// record yields an empty document.
func Open(ctx context.Context, backend Backend, log hclog.Logger) *Store {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	s := &Store{backend: backend, log: log, doc: Empty()}
	payload, err := backend.Load(ctx)
	switch {
	case err != nil:
		log.Warn("state unavailable, starting empty", "error", err)
		return s
	case len(payload) == 0:
		return s
	}
	doc, err := Decode(payload)
	if err != nil {
		log.Warn("state is malformed, starting empty", "error", err)
		return s
	}
	s.doc = doc
	return s
}

// Within runs fn as one atomic unit. Nested calls made with the context
// passed to fn join the outer unit. If fn fails the document is restored.
func (s *Store) Within(ctx context.Context, fn func(context.Context) error) error {
	if owner, _ := ctx.Value(txKey{}).(*Store); owner == s {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.doc.Clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.doc = snapshot
		return err
	}
	s.persistLocked(ctx)
	return nil
}

// Update mutates the document inside a transaction.
func (s *Store) Update(ctx context.Context, fn func(doc *Document) error) error {
	return s.Within(ctx, func(context.Context) error {
		return fn(&s.doc)
	})
}

// View exposes the document read-only. fn must not retain or modify slices.
func (s *Store) View(ctx context.Context, fn func(doc Document) error) error {
	if owner, _ := ctx.Value(txKey{}).(*Store); owner == s {
		return fn(s.doc)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Dirty reports whether the last persistence attempt failed.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush retries persistence and reports its outcome.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) persistLocked(ctx context.Context) {
	if err := s.saveLocked(ctx); err != nil {
		s.log.Warn("state persistence failed, continuing in memory", "error", err)
	}
}

func (s *Store) saveLocked(ctx context.Context) error {
	payload, err := Encode(s.doc)
	if err != nil {
		s.dirty = true
		return err
	}
	if err := s.backend.Save(ctx, payload); err != nil {
		s.dirty = true
		return err
	}
	s.dirty = false
	return nil
}
