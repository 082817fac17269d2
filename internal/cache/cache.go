// Package cache stores profile reports addressed by content+options
// fingerprint. Two tiers: an in-memory index guarded by a mutex, and one
// JSON file per fingerprint on disk with the file mtime as the recency
// marker. The cache is best-effort on both read and write; no request's
// correctness depends on it.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ptengelmann/ProfilanIQ/domain/core"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
	"github.com/ptengelmann/ProfilanIQ/internal"
)

// DefaultTTL is the entry lifetime unless configured otherwise.
const DefaultTTL = 24 * time.Hour

// Entry is the on-disk record: {fingerprint, timestamp, result}.
type Entry struct {
	Fingerprint string          `json:"fingerprint"`
	Timestamp   time.Time       `json:"timestamp"`
	Result      *profile.Report `json:"result"`
}

type indexEntry struct {
	path     string
	storedAt time.Time
}

// Store is the two-tier report cache.
type Store struct {
	dir    string
	ttl    time.Duration
	logger *internal.Logger

	mu    sync.RWMutex
	index map[string]indexEntry
}

// New opens (creating on demand) the cache directory, scans it for live
// entries, and returns the store. Entries that fail to parse or have aged
// out are skipped.
func New(dir string, ttl time.Duration, logger *internal.Logger) (*Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	s := &Store{
		dir:    dir,
		ttl:    ttl,
		logger: logger.Tagged("Cache"),
		index:  make(map[string]indexEntry),
	}
	s.loadExisting()
	return s, nil
}

// loadExisting indexes cache files already on disk.
func (s *Store) loadExisting() {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("startup scan failed: %v", err)
		return
	}
	loaded := 0
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		fingerprint := strings.TrimSuffix(name, ".json")
		path := filepath.Join(s.dir, name)

		info, err := file.Info()
		if err != nil || time.Since(info.ModTime()) > s.ttl {
			continue
		}
		var entry Entry
		data, err := os.ReadFile(path)
		if err != nil || json.Unmarshal(data, &entry) != nil {
			s.logger.Warn("skipping unreadable cache file %s", name)
			continue
		}
		s.index[fingerprint] = indexEntry{path: path, storedAt: info.ModTime()}
		loaded++
	}
	if loaded > 0 {
		s.logger.Info("restored %d cached report(s)", loaded)
	}
}

// Lookup returns the cached report for the fingerprint, or a miss. Expired,
// missing, or corrupted entries are evicted and reported as miss.
func (s *Store) Lookup(fp core.Fingerprint) (*profile.Report, bool) {
	key := fp.String()

	s.mu.RLock()
	entry, ok := s.index[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	info, err := os.Stat(entry.path)
	if err != nil || time.Since(info.ModTime()) > s.ttl {
		s.evict(key, entry.path)
		return nil, false
	}

	data, err := os.ReadFile(entry.path)
	if err != nil {
		s.logger.Warn("read failed for %s: %v", key, err)
		s.evict(key, entry.path)
		return nil, false
	}
	var stored Entry
	if err := json.Unmarshal(data, &stored); err != nil || stored.Result == nil {
		s.logger.Warn("corrupted cache entry %s", key)
		s.evict(key, entry.path)
		return nil, false
	}

	// Mark recency on the file itself.
	now := time.Now()
	_ = os.Chtimes(entry.path, now, now)

	return stored.Result, true
}

// Store writes the report under its fingerprint and indexes it. Failures
// are logged and reported as stored=false; they never fail the request.
func (s *Store) Store(fp core.Fingerprint, report *profile.Report) bool {
	key := fp.String()
	path := filepath.Join(s.dir, key+".json")

	entry := Entry{
		Fingerprint: key,
		Timestamp:   time.Now(),
		Result:      report,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error("marshal failed for %s: %v", key, err)
		return false
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.logger.Error("write failed for %s: %v", key, err)
		return false
	}

	s.mu.Lock()
	s.index[key] = indexEntry{path: path, storedAt: entry.Timestamp}
	s.mu.Unlock()
	return true
}

// Len returns the number of indexed entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}

func (s *Store) evict(key, path string) {
	_ = os.Remove(path)
	s.mu.Lock()
	delete(s.index, key)
	s.mu.Unlock()
}

// Sweep deletes every expired entry. Returns the eviction count.
func (s *Store) Sweep() int {
	type victim struct {
		key  string
		path string
	}

	s.mu.RLock()
	victims := []victim{}
	for key, entry := range s.index {
		info, err := os.Stat(entry.path)
		if err != nil || time.Since(info.ModTime()) > s.ttl {
			victims = append(victims, victim{key: key, path: entry.path})
		}
	}
	s.mu.RUnlock()

	for _, v := range victims {
		s.evict(v.key, v.path)
	}
	if len(victims) > 0 {
		s.logger.Info("swept %d expired entr(ies)", len(victims))
	}
	return len(victims)
}

// StartSweeper runs Sweep on the interval until the context ends.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
