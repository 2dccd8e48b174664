package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Document is a generated file held until its expiry.
type Document struct {
	ID          string
	Filename    string
	ContentType string
	Content     []byte
	ExpiresAt   time.Time
}

// Store keeps generated documents in memory, each under its own token
// and with its own expiry, so concurrent requests cannot clobber each
// other's output. Expired documents are swept by a background routine
// and also rejected on read.
type Store struct {
	items     map[string]*Document
	lock      sync.RWMutex
	closeChan chan struct{}
	closed    bool
}

// New creates a new document store and starts its cleanup routine.
func New() *Store {
	store := &Store{
		items:     make(map[string]*Document),
		closeChan: make(chan struct{}),
	}

	go store.cleanupRoutine()

	return store
}

// Put adds or replaces a document under its ID.
func (s *Store) Put(ctx context.Context, doc *Document) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.items[doc.ID] = doc

	return nil
}

// Get retrieves a document by ID. Expired documents count as missing.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	doc, exists := s.items[id]
	if !exists {
		return nil, fmt.Errorf("document with ID %s not found", id)
	}

	if !doc.ExpiresAt.IsZero() && time.Now().After(doc.ExpiresAt) {
		return nil, fmt.Errorf("document with ID %s has expired", id)
	}

	return doc, nil
}

// Delete removes a document from the store.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrClosed
	}

	delete(s.items, id)

	return nil
}

// Close closes the store and cleans up resources.
func (s *Store) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	close(s.closeChan)
	s.items = nil

	return nil
}

// cleanupRoutine periodically removes expired documents.
func (s *Store) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.closeChan:
			return
		}
	}
}

// cleanupExpired removes all expired documents.
func (s *Store) cleanupExpired() {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := time.Now()

	for id, doc := range s.items {
		if !doc.ExpiresAt.IsZero() && now.After(doc.ExpiresAt) {
			delete(s.items, id)
		}
	}
}
