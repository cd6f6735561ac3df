// Package repositorytest provides an in-memory DocumentStore for tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"

	"github.com/example/honeystore/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu          sync.Mutex
	name        string
	collections map[string][]bson.M

	// Errors injected per operation: "insert", "find", "list", "ping".
	Fail map[string]error
}

var _ repository.DocumentStore = (*Store)(nil)

func NewStore(name string) *Store {
	return &Store{
		name:        name,
		collections: make(map[string][]bson.M),
		Fail:        make(map[string]error),
	}
}

func (s *Store) failure(op, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.Fail[op]; ok && err != nil {
		return &repository.StorageError{Op: op, Collection: collection, Err: err}
	}
	return nil
}

func (s *Store) CreateDocument(ctx context.Context, collection string, record interface{}) (string, error) {
	if err := s.failure("insert", collection); err != nil {
		return "", err
	}

	data, err := bson.Marshal(record)
	if err != nil {
		return "", &repository.StorageError{Op: "insert", Collection: collection, Err: err}
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return "", &repository.StorageError{Op: "insert", Collection: collection, Err: err}
	}

	id := primitive.NewObjectID().Hex()
	doc["_id"] = id

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], doc)
	s.mu.Unlock()

	return id, nil
}

func (s *Store) GetDocuments(ctx context.Context, collection string, limit int64) ([]bson.M, error) {
	if err := s.failure("find", collection); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	if limit > 0 && int64(len(docs)) > limit {
		docs = docs[:limit]
	}

	out := make([]bson.M, len(docs))
	for i, d := range docs {
		cp := make(bson.M, len(d))
		for k, v := range d {
			cp[k] = v
		}
		out[i] = cp
	}
	return out, nil
}

func (s *Store) ListCollectionNames(ctx context.Context) ([]string, error) {
	if err := s.failure("list", ""); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.failure("ping", "")
}

func (s *Store) DatabaseName() string {
	return s.name
}

// Put stores doc as-is, for documents written outside CreateDocument.
func (s *Store) Put(collection string, doc bson.M) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], doc)
}

// Count returns the number of documents in collection.
func (s *Store) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}
