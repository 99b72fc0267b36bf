package diagfmt

import (
	"path/filepath"

	"tide/internal/source"
)

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	if fs == nil {
		return ""
	}
	p := fs.Path(id)
	if p == "" {
		return ""
	}
	switch mode {
	case PathModeAbsolute:
		if filepath.IsAbs(p) {
			return p
		}
		if abs, err := filepath.Abs(filepath.Join(fs.BaseDir(), p)); err == nil {
			return filepath.ToSlash(abs)
		}
		return p
	case PathModeBasename:
		return filepath.Base(p)
	default:
		return fs.RelPath(id)
	}
}
