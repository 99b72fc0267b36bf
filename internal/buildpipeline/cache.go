package buildpipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"tide/internal/diag"
	"tide/internal/project"
	"tide/internal/source"
)

// Current schema version - increment when OutputPayload format changes
const cacheSchemaVersion uint16 = 1

// DiskCache хранит сгенерированный текст файлов по ключу
// Combine(документ, конфигурация, таблица членов).
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiagnostic is a non-fatal diagnostic replayed on a cache hit. Spans keep
// positions only; the file is the one being generated.
type CachedDiagnostic struct {
	Severity  uint8
	Code      uint16
	Message   string
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
}

// OutputPayload is one cached generation result.
type OutputPayload struct {
	// Schema version for safe invalidation when format changes
	Schema      uint16
	Path        string
	Text        string
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache initializes a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache uses dir as the cache root.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	// подкаталог "out" - сгенерированные файлы
	return filepath.Join(c.dir, "out", key.Hex()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *OutputPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = cacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload. A payload of another schema is a miss.
func (c *DiskCache) Get(key project.Digest, out *OutputPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key.Hex()[:12], err)
	}
	return out.Schema == cacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func toCached(items []diag.Diagnostic) []CachedDiagnostic {
	if len(items) == 0 {
		return nil
	}
	out := make([]CachedDiagnostic, 0, len(items))
	for _, d := range items {
		out = append(out, CachedDiagnostic{
			Severity:  uint8(d.Severity),
			Code:      uint16(d.Code),
			Message:   d.Message,
			StartLine: d.Primary.Start.Line,
			StartCol:  d.Primary.Start.Col,
			EndLine:   d.Primary.End.Line,
			EndCol:    d.Primary.End.Col,
		})
	}
	return out
}

func fromCached(items []CachedDiagnostic, file source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(items))
	for _, c := range items {
		out = append(out, diag.Diagnostic{
			Severity: diag.Severity(c.Severity),
			Code:     diag.Code(c.Code),
			Message:  c.Message,
			Primary: source.Span{
				File:  file,
				Start: source.Pos{Line: c.StartLine, Col: c.StartCol},
				End:   source.Pos{Line: c.EndLine, Col: c.EndCol},
			},
		})
	}
	return out
}
