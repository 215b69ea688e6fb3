package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voicegen/internal/audio"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/klauspost/compress/zstd"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheCorrupted is returned when cache data cannot be decoded
	ErrCacheCorrupted = errors.New("cache data corrupted")
)

// DefaultCapacity is the disk budget of a cache opened with capacity 0.
const DefaultCapacity = 64 << 20

const fileExt = ".pcm.zst"

// Stats holds cache metrics.
type Stats struct {
	Capacity  int64
	Size      int64
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type entry struct {
	path       string
	size       int64
	lastAccess time.Time
}

// DiskCache stores zstd-compressed PCM under a directory. Entries are
// evicted least recently used first once the compressed size exceeds the
// capacity.
type DiskCache struct {
	dir      string
	capacity int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	index map[string]*entry
	size  int64
	stats Stats
}

// Open opens or creates a cache in dir. Existing entries are indexed by
// modification time.
func Open(dir string, capacity int64) (*DiskCache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	dc := &DiskCache{
		dir:      dir,
		capacity: capacity,
		encoder:  enc,
		decoder:  dec,
		index:    make(map[string]*entry),
	}
	if err := dc.load(); err != nil {
		_ = dc.Close()
		return nil, err
	}
	return dc, nil
}

func (dc *DiskCache) load() error {
	if err := os.MkdirAll(dc.dir, 0o755); err != nil { //nolint:gosec
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	files, err := os.ReadDir(dc.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		key := strings.TrimSuffix(name, fileExt)
		dc.index[key] = &entry{
			path:       filepath.Join(dc.dir, name),
			size:       info.Size(),
			lastAccess: info.ModTime(),
		}
		dc.size += info.Size()
	}
	return nil
}

// Key derives the cache key of samples rendered with cfg.
func Key(samples []voice.Sample, cfg audio.Config) string {
	h := sha256.New()
	var buf [8]byte
	put := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	put(float64(cfg.SampleRate))
	put(cfg.Volume)
	put(cfg.Threshold)
	put(cfg.NoiseLevel)
	for _, s := range samples {
		put(s.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the PCM stored under key.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	e, ok := dc.index[key]
	if !ok {
		dc.stats.Misses++
		return nil, false
	}

	data, err := os.ReadFile(e.path)
	if err == nil {
		data, err = dc.decoder.DecodeAll(data, nil)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrCacheCorrupted, err)
		}
	}
	if err != nil {
		log.Debug("Dropping cache entry", "key", key, "err", err)
		dc.removeLocked(key, e)
		dc.stats.Misses++
		return nil, false
	}

	now := time.Now()
	e.lastAccess = now
	_ = os.Chtimes(e.path, now, now)
	dc.stats.Hits++
	return data, true
}

// Put stores pcm under key, evicting old entries to stay within capacity.
func (dc *DiskCache) Put(key string, pcm []byte) error {
	data := dc.encoder.EncodeAll(pcm, nil)
	size := int64(len(data))
	if size > dc.capacity {
		return ErrItemTooLarge
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	if e, ok := dc.index[key]; ok {
		dc.removeLocked(key, e)
	}
	for dc.size+size > dc.capacity && len(dc.index) > 0 {
		dc.evictOldestLocked()
	}

	path := filepath.Join(dc.dir, key+fileExt)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	dc.index[key] = &entry{path: path, size: size, lastAccess: time.Now()}
	dc.size += size
	return nil
}

func (dc *DiskCache) evictOldestLocked() {
	keys := make([]string, 0, len(dc.index))
	for k := range dc.index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return dc.index[keys[i]].lastAccess.Before(dc.index[keys[j]].lastAccess)
	})
	oldest := keys[0]
	dc.removeLocked(oldest, dc.index[oldest])
	dc.stats.Evictions++
}

func (dc *DiskCache) removeLocked(key string, e *entry) {
	if err := os.Remove(e.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Debug("Unable to remove cache file", "path", e.path, "err", err)
	}
	delete(dc.index, key)
	dc.size -= e.size
}

// Clear removes every entry.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	for k, e := range dc.index {
		dc.removeLocked(k, e)
	}
	return nil
}

// Stats returns a snapshot of the cache metrics.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	s := dc.stats
	s.Capacity = dc.capacity
	s.Size = dc.size
	s.Items = len(dc.index)
	return s
}

// Close releases the zstd codec.
func (dc *DiskCache) Close() error {
	dc.decoder.Close()
	return dc.encoder.Close()
}
