package project

import (
	"errors"
	"strings"

	"tide/internal/source"
)

// ImportMeta is one import of a file, as written by the front end.
type ImportMeta struct {
	Path string
	Span source.Span
}

// FileMeta is the node of the import graph for one bound-tree document.
type FileMeta struct {
	Path        string // нормализованный путь: "a/b.cs"
	Span        source.Span
	Imports     []ImportMeta
	ContentHash Digest // хеш документа
}

// NewFileMeta normalizes path and imports. Imports that do not normalize are dropped
// and returned in bad so that the caller can report them.
func NewFileMeta(path string, span source.Span, content Digest, imports []string) (meta FileMeta, bad []string, err error) {
	norm, err := NormalizePath(path)
	if err != nil {
		return FileMeta{}, nil, err
	}
	meta = FileMeta{Path: norm, Span: span, ContentHash: content}
	for _, imp := range imports {
		p, err := NormalizePath(imp)
		if err != nil {
			bad = append(bad, imp)
			continue
		}
		meta.Imports = append(meta.Imports, ImportMeta{Path: p, Span: span})
	}
	return meta, bad, nil
}

// NormalizePath приводит путь файла (импорт или сам документ) к каноническому виду "a/b.cs".
// Переводит слэши к '/', убирает сегменты "." и запрещает пустые сегменты и выход за корень.
func NormalizePath(path string) (string, error) {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return "", errors.New("empty file path")
	}
	segs := strings.Split(path, "/")
	out := make([]string, 0, len(segs))
	for i, seg := range segs {
		switch seg {
		case "":
			if i == len(segs)-1 {
				return "", errors.New("file path ends with a separator")
			}
			// пустой сегмент, например "a//b"
			return "", errors.New("invalid file path")
		case ".":
			continue
		case "..":
			if len(out) == 0 {
				return "", errors.New("file path escapes the project root")
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return "", errors.New("invalid file path")
	}
	return strings.Join(out, "/"), nil
}
