package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	// FileNoText marks files whose original text was not shipped with the bound tree.
	FileNoText
	FileNormalizedCRLF
)

// File captures metadata and (optionally) content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// Pos is a human-readable position as delivered by the front end.
type Pos struct {
	Line uint32 // 1-based, 0 = unknown
	Col  uint32 // 1-based
}

// IsValid reports whether the position carries a line.
func (p Pos) IsValid() bool {
	return p.Line != 0
}

// Before orders positions within the same file.
func (p Pos) Before(other Pos) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}
