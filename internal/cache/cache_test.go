package cache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgnsrekt/voicegen/internal/audio"
	"github.com/dgnsrekt/voicegen/voice"
)

func openTestCache(t *testing.T, capacity int64) *DiskCache {
	t.Helper()
	dc, err := Open(t.TempDir(), capacity)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = dc.Close() })
	return dc
}

func TestDiskCache_PutGet(t *testing.T) {
	dc := openTestCache(t, 0)
	pcm := bytes.Repeat([]byte{1, 2, 3, 4}, 4096)

	if _, ok := dc.Get("missing"); ok {
		t.Error("Get() hit on empty cache")
	}
	if err := dc.Put("k", pcm); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, ok := dc.Get("k")
	if !ok {
		t.Fatal("Get() missed after Put")
	}
	if !bytes.Equal(got, pcm) {
		t.Error("Get() returned different bytes")
	}

	st := dc.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Items != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if st.Size >= int64(len(pcm)) {
		t.Errorf("Size = %d, expected compression below %d", st.Size, len(pcm))
	}
	if st.HitRate() != 0.5 {
		t.Errorf("HitRate() = %v, want 0.5", st.HitRate())
	}
}

func TestDiskCache_Reopen(t *testing.T) {
	dir := t.TempDir()
	dc, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := dc.Put("k", []byte("pcm")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	_ = dc.Close()

	dc, err = Open(dir, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer dc.Close()
	got, ok := dc.Get("k")
	if !ok || string(got) != "pcm" {
		t.Errorf("Get() after reopen = %q, %v", got, ok)
	}
}

func TestDiskCache_Eviction(t *testing.T) {
	dc := openTestCache(t, 0)
	probe := dc.encoder.EncodeAll(make([]byte, 64), nil)
	dc.capacity = int64(len(probe)) * 3

	for i := range 3 {
		if err := dc.Put(fmt.Sprintf("key-%d", i), make([]byte, 64)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	// key-0 becomes the most recently used.
	dc.Get("key-0")

	if err := dc.Put("key-3", make([]byte, 64)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := dc.Get("key-1"); ok {
		t.Error("key-1 should have been evicted")
	}
	for _, k := range []string{"key-0", "key-2", "key-3"} {
		if _, ok := dc.Get(k); !ok {
			t.Errorf("%s evicted unexpectedly", k)
		}
	}
	if st := dc.Stats(); st.Evictions != 1 || st.Size > dc.capacity {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestDiskCache_TooLarge(t *testing.T) {
	dc := openTestCache(t, 1)
	if err := dc.Put("k", []byte("more than a byte")); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("Put() error = %v, want ErrItemTooLarge", err)
	}
}

func TestDiskCache_Corrupted(t *testing.T) {
	dc := openTestCache(t, 0)
	if err := dc.Put("k", []byte("pcm")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dc.dir, "k"+fileExt), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := dc.Get("k"); ok {
		t.Error("Get() hit on corrupted entry")
	}
	if st := dc.Stats(); st.Items != 0 {
		t.Errorf("corrupted entry kept, Items = %d", st.Items)
	}
}

func TestDiskCache_Clear(t *testing.T) {
	dc := openTestCache(t, 0)
	for i := range 3 {
		_ = dc.Put(fmt.Sprintf("key-%d", i), []byte("pcm"))
	}
	if err := dc.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if st := dc.Stats(); st.Items != 0 || st.Size != 0 {
		t.Errorf("Stats() after Clear = %+v", st)
	}
	files, _ := os.ReadDir(dc.dir)
	if len(files) != 0 {
		t.Errorf("%d files left after Clear", len(files))
	}
}

func TestKey(t *testing.T) {
	cfg := audio.DefaultConfig()
	a := []voice.Sample{{Tick: 0, Value: 110}, {Tick: 1, Value: 3}}
	b := []voice.Sample{{Tick: 0, Value: 110}, {Tick: 1, Value: 4}}

	if Key(a, cfg) != Key(a, cfg) {
		t.Error("Key() is not deterministic")
	}
	if Key(a, cfg) == Key(b, cfg) {
		t.Error("Key() ignores sample values")
	}
	louder := cfg
	louder.Volume = 1
	if Key(a, cfg) == Key(a, louder) {
		t.Error("Key() ignores audio config")
	}
}

func TestOpenFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	dc, err := Open(file, 0)
	if err == nil {
		_ = dc.Close()
		t.Fatal("expected Open to fail on a regular file")
	}
	if dc != nil {
		t.Error("expected no cache on failure")
	}
}
