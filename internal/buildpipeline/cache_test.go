package buildpipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"tide/internal/diag"
	"tide/internal/project"
	"tide/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	be.Err(t, err, nil)
	key := project.Sum([]byte("Program.cs"))

	var got OutputPayload
	hit, err := cache.Get(key, &got)
	be.Err(t, err, nil)
	be.True(t, !hit)

	warn := diag.New(diag.SevWarning, diag.GenUnimportedRef, source.At(3, 4, 9), "Enemy is not imported")
	be.Err(t, cache.Put(key, &OutputPayload{Path: "Program.cs", Text: "local CS = x\n", Diagnostics: toCached([]diag.Diagnostic{warn})}), nil)

	hit, err = cache.Get(key, &got)
	be.Err(t, err, nil)
	be.True(t, hit)
	be.Equal(t, got.Text, "local CS = x\n")

	replayed := fromCached(got.Diagnostics, 7)
	be.Equal(t, len(replayed), 1)
	be.Equal(t, replayed[0].Code, diag.GenUnimportedRef)
	be.Equal(t, replayed[0].Severity, diag.SevWarning)
	be.Equal(t, replayed[0].Primary, source.At(7, 4, 9))
}

func TestDiskCacheCorruptEntry(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	be.Err(t, err, nil)
	key := project.Sum([]byte("x"))
	p := cache.pathFor(key)
	be.Err(t, os.MkdirAll(filepath.Dir(p), 0o755), nil)
	be.Err(t, os.WriteFile(p, []byte{0xc1}, 0o644), nil)

	var got OutputPayload
	hit, err := cache.Get(key, &got)
	be.True(t, err != nil)
	be.True(t, !hit)
}

func TestDiskCacheDropAll(t *testing.T) {
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "tide"))
	be.Err(t, err, nil)
	key := project.Sum([]byte("a"))
	be.Err(t, cache.Put(key, &OutputPayload{Text: "a"}), nil)
	be.Err(t, cache.DropAll(), nil)

	var got OutputPayload
	hit, err := cache.Get(key, &got)
	be.Err(t, err, nil)
	be.True(t, !hit)
	_, err = os.Stat(cache.Dir())
	be.Err(t, err, nil)
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	be.Err(t, cache.Put(project.Digest{}, &OutputPayload{}), nil)
	hit, err := cache.Get(project.Digest{}, &OutputPayload{})
	be.Err(t, err, nil)
	be.True(t, !hit)
}
