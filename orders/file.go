package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"lakecity/models"
)

// FileStore keeps every order in one JSON array on disk. Each Create reads
// the whole array, appends, and writes it back.
//
// Writes from this process are serialized; separate processes sharing the
// file are not coordinated and can still lose an order to a concurrent write.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Create(_ context.Context, order models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := Prepare(order, s.now())

	existing, err := s.load()
	if err != nil {
		return models.Order{}, err
	}
	existing = append(existing, stored)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return models.Order{}, fmt.Errorf("create order dir: %w", err)
	}
	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return models.Order{}, fmt.Errorf("encode orders: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return models.Order{}, fmt.Errorf("write orders: %w", err)
	}
	return stored, nil
}

func (s *FileStore) Get(_ context.Context, orderNumber string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return models.Order{}, err
	}
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].OrderNumber == orderNumber {
			return all[i], nil
		}
	}
	return models.Order{}, ErrNotFound
}

// List returns every stored order in write order.
func (s *FileStore) List(_ context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() ([]models.Order, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []models.Order{}, nil
	}
	var list []models.Order
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse orders: %w", err)
	}
	return list, nil
}
