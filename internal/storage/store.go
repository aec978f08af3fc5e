// Package storage is a durable key/value store kept in a single file, the
// desktop counterpart of browser local storage.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	ErrPasswordRequired   = errors.New("storage: password required")
	ErrInvalidPassword    = errors.New("storage: invalid password")
	ErrCorrupt            = errors.New("storage: corrupt store file")
	ErrUnsupportedVersion = errors.New("storage: unsupported version")
)

// Store is the subset of the key/value API the rest of the program depends on.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

type Options struct {
	Compression bool
	Password    string
}

func (o Options) encrypted() bool { return strings.TrimSpace(o.Password) != "" }

func (o Options) wrapped() bool { return o.Compression || o.encrypted() }

type FileStore struct {
	path string
	opts Options
	mu   sync.Mutex
}

// Open prepares a store at path. An existing file is read once so that a
// wrong password or a corrupt file is reported up front.
func Open(path string, opts Options) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: empty path")
	}
	s := &FileStore{path: filepath.Clean(path), opts: opts}
	if _, err := s.readAll(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.readAll()
	if err != nil {
		return nil, false, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	var compact bytes.Buffer
	if err := json.Compact(&compact, value); err != nil {
		return fmt.Errorf("storage: value for %q is not valid JSON: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.readAll()
	if err != nil {
		return err
	}
	entries[key] = json.RawMessage(compact.Bytes())
	return s.writeAll(entries)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.readAll()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.writeAll(entries)
}

func (s *FileStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.readAll()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Inspect reports how the file on disk is wrapped.
func (s *FileStore) Inspect() (EnvelopeInfo, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return EnvelopeInfo{}, nil
	}
	if err != nil {
		return EnvelopeInfo{}, err
	}
	return inspectEnvelope(b)
}

func (s *FileStore) readAll() (map[string]json.RawMessage, error) {
	entries := map[string]json.RawMessage{}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	if isEnvelope(b) {
		b, err = openEnvelope(b, s.opts.Password)
		if err != nil {
			return nil, err
		}
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return entries, nil
}

func (s *FileStore) writeAll(entries map[string]json.RawMessage) error {
	// Values are stored compact and unescaped so Get hands back exactly what
	// Set accepted.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return err
	}
	blob := buf.Bytes()
	if s.opts.wrapped() {
		sealed, err := sealEnvelope(blob, s.opts)
		if err != nil {
			return err
		}
		blob = sealed
	}
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
