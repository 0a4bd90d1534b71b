package engine

import (
	"fmt"
	"os"
	"sync"
)

type fileHandle struct {
	mu   sync.Mutex
	file *os.File
}

// FileWriter keeps one append handle per key. Drivers key by run id, so a
// replaced run closing its handle never touches the handle of its successor
// on the same path.
type FileWriter struct {
	mu      sync.RWMutex
	handles map[string]*fileHandle
}

func NewFileWriter() *FileWriter {
	return &FileWriter{
		handles: make(map[string]*fileHandle),
	}
}

// Append writes data at the end of path, opening it under key on first use.
func (fw *FileWriter) Append(key, path string, data []byte) error {
	h, err := fw.getOrCreateFile(key, path)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err = h.file.Write(data)
	return err
}

func (fw *FileWriter) getOrCreateFile(key, path string) (*fileHandle, error) {
	// Read-Lock: Check if handle exists
	fw.mu.RLock()
	h, ok := fw.handles[key]
	fw.mu.RUnlock()
	if ok {
		return h, nil
	}

	// Write-Lock: Prepare to create handle
	fw.mu.Lock()
	defer fw.mu.Unlock()

	h, ok = fw.handles[key]
	if ok {
		return h, nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open output file: %w", err)
	}

	h = &fileHandle{file: f}
	fw.handles[key] = h

	return h, nil
}

// CloseFile syncs and releases the handle for key, if open.
func (fw *FileWriter) CloseFile(key string) error {
	fw.mu.Lock()
	h, ok := fw.handles[key]
	if ok {
		delete(fw.handles, key)
	}
	fw.mu.Unlock()

	if !ok {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_ = h.file.Sync()
	return h.file.Close()
}

func (fw *FileWriter) CloseAll() {
	fw.mu.RLock()
	keys := make([]string, 0, len(fw.handles))
	for key := range fw.handles {
		keys = append(keys, key)
	}
	fw.mu.RUnlock()

	for _, key := range keys {
		_ = fw.CloseFile(key) // Ignore error on global cleanup
	}
}
