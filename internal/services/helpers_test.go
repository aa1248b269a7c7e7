package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"time"

	"election-service/internal/models"
)

type memStorage struct {
	mu      sync.Mutex
	files   map[string]string
	deleted []string
	n       int
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string]string)}
}

func (m *memStorage) Upload(_ context.Context, file *multipart.FileHeader, folder string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	url := fmt.Sprintf("/uploads/%s/%d-%s", folder, m.n, file.Filename)
	m.files[url] = file.Filename
	return url, nil
}

func (m *memStorage) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, url)
	m.deleted = append(m.deleted, url)
	return nil
}

type publishedEvent struct {
	Type    string
	Key     string
	Payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Key: key, Payload: payload})
	return nil
}

func (p *recordingPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type memCache struct {
	mu      sync.Mutex
	entries map[uint]*models.PublicResults
	gets    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[uint]*models.PublicResults)}
}

func (c *memCache) GetResults(_ context.Context, id uint) (*models.PublicResults, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	r, ok := c.entries[id]
	return r, ok
}

func (c *memCache) SetResults(_ context.Context, id uint, r *models.PublicResults, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = r
	return nil
}

func (c *memCache) InvalidateResults(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

func (c *memCache) has(id uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}

type fakeFeed struct {
	mu          sync.Mutex
	subscribers map[uint]int
	sent        map[uint][]any
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{subscribers: make(map[uint]int), sent: make(map[uint][]any)}
}

func (f *fakeFeed) Subscribers(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribers[id]
}

func (f *fakeFeed) Broadcast(id uint, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[id] = append(f.sent[id], payload)
}

func fileHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 3}
}
