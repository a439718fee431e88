// Package filestore persists collections as JSON arrays, one file per
// collection, and rewrites a file wholesale whenever it changes.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var (
	ErrCorruptCollection   = errors.New("collection file is not valid JSON")
	ErrReadOnlyTransaction = errors.New("write attempted in a read-only transaction")
)

// Store serialises mutating transactions with a process-wide write lock so
// a check followed by a write inside one Update cannot interleave with
// another writer in this process. Readers share the lock.
type Store struct {
	fs  afero.Fs
	dir string
	log *logrus.Logger
	mu  sync.RWMutex
}

func NewStore(fs afero.Fs, dir string, log *logrus.Logger) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	return &Store{
		fs:  fs,
		dir: dir,
		log: log,
	}, nil
}

type txKey struct{}

// ContextWithTx attaches tx so nested View/Update calls on the same store
// join it instead of taking the lock again.
func ContextWithTx(ctx context.Context, tx *Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func (s *Store) txFromContext(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*Tx)
	if !ok || tx.store != s {
		return nil, false
	}
	return tx, true
}

// View runs fn with a read-only transaction.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	if tx, ok := s.txFromContext(ctx); ok {
		return fn(tx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(s.newTx(false))
}

// Update runs fn with a writable transaction and writes every collection fn
// saved once fn returns nil. Nothing is written when fn fails.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	if tx, ok := s.txFromContext(ctx); ok {
		if !tx.writable {
			return ErrReadOnlyTransaction
		}
		return fn(tx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.newTx(true)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

// WithinTransaction implements repository.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Update(ctx, func(tx *Tx) error {
		return fn(ContextWithTx(ctx, tx))
	})
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// readFile returns nil for a missing or blank collection file.
func (s *Store) readFile(name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read collection %s: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return data, nil
}

// writeFile replaces the collection file through a temp file and a rename,
// so readers never observe a half-written array.
func (s *Store) writeFile(name string, data []byte) error {
	tmp, err := afero.TempFile(s.fs, s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("write collection %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("close temp file for %s: %w", name, err)
	}
	if err := s.fs.Rename(tmpName, s.path(name)); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("replace collection %s: %w", name, err)
	}
	return nil
}

// Tx caches the raw bytes of every collection it touches. Load always
// decodes a fresh copy, so callers may mutate what they get back.
type Tx struct {
	store    *Store
	writable bool
	raw      map[string][]byte
	dirty    []string
}

func (s *Store) newTx(writable bool) *Tx {
	return &Tx{
		store:    s,
		writable: writable,
		raw:      make(map[string][]byte),
	}
}

// Load decodes collection name into out, which must point to a slice. A
// missing collection leaves out untouched.
func (tx *Tx) Load(name string, out interface{}) error {
	data, ok := tx.raw[name]
	if !ok {
		var err error
		data, err = tx.store.readFile(name)
		if err != nil {
			return err
		}
		tx.raw[name] = data
	}
	if data == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		tx.store.log.Errorf("Failed to parse collection %s: %+v", name, err)
		return fmt.Errorf("%w: %s: %v", ErrCorruptCollection, name, err)
	}
	return nil
}

// Save replaces collection name with items. The file is written on commit.
func (tx *Tx) Save(name string, items interface{}) error {
	if !tx.writable {
		return ErrReadOnlyTransaction
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", name, err)
	}

	if !tx.isDirty(name) {
		tx.dirty = append(tx.dirty, name)
	}
	tx.raw[name] = data
	return nil
}

func (tx *Tx) isDirty(name string) bool {
	for _, n := range tx.dirty {
		if n == name {
			return true
		}
	}
	return false
}

func (tx *Tx) commit() error {
	for _, name := range tx.dirty {
		if err := tx.store.writeFile(name, tx.raw[name]); err != nil {
			return err
		}
		tx.store.log.Debugf("Collection %s written", name)
	}
	return nil
}
