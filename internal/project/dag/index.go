package dag

import (
	"sort"

	"tide/internal/project"
)

type FileID uint32

type FileIndex struct {
	NameToID map[string]FileID
	IDToName []string
}

// собрать уникальные пути файлов и импортов, sort.Strings, раздать ID по порядку
func BuildIndex(metas []project.FileMeta) FileIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
		for _, dep := range meta.Imports {
			if dep.Path == "" {
				continue
			}
			uniq[dep.Path] = struct{}{}
		}
	}

	paths := make([]string, 0, len(uniq))
	for path := range uniq {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	nameToID := make(map[string]FileID, len(paths))
	for i, path := range paths {
		nameToID[path] = FileID(i)
	}

	return FileIndex{
		NameToID: nameToID,
		IDToName: paths,
	}
}
