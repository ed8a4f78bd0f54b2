package submissionstorage

import (
	"context"
	"io"
	"sort"
	"sync"
)

// FakeStorage keeps objects in memory. UploadFunc, when set, replaces the
// default behaviour.
type FakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	UploadFunc func(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*Object, error)
}

// NewFakeStorage creates an empty fake.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{objects: map[string][]byte{}}
}

func (f *FakeStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*Object, error) {
	if f.UploadFunc != nil {
		return f.UploadFunc(ctx, key, body, size, contentType)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.Put(key, data)
	return &Object{Key: key, URL: "https://files.test/" + key, Size: int64(len(data))}, nil
}

func (f *FakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

// Put stores data under key.
func (f *FakeStorage) Put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
}

// Keys returns the stored keys in order.
func (f *FakeStorage) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Deleted returns the keys passed to Delete.
func (f *FakeStorage) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

var _ Storage = (*FakeStorage)(nil)
