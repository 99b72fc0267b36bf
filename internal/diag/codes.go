package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Configuration (fatal for the whole run)
	CfgInfo           Code = 1000
	CfgInvalid        Code = 1001
	CfgMissingField   Code = 1002
	CfgUnknownPass    Code = 1003
	CfgBadPattern     Code = 1004
	CfgEntryNotFound  Code = 1005
	CfgBadIndentWidth Code = 1006

	// Forwarded from the front end
	UpsInfo        Code = 2000
	UpsParse       Code = 2001
	UpsBind        Code = 2002
	UpsDuplicateID Code = 2003
	UpsBadTree     Code = 2004

	// Code generation (fatal for the current file)
	GenInfo             Code = 3000
	GenUnsupported      Code = 3001
	GenUndetermined     Code = 3002
	GenMissingTypeArg   Code = 3003
	GenUnimportedRef    Code = 3004
	GenMissingEntry     Code = 3005
	GenEntryNotStatic   Code = 3006
	GenUnsupportedOp    Code = 3007
	GenUnsupportedValue Code = 3008

	// I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
	IOCacheError     Code = 4003

	// Project graph
	ProjInfo          Code = 5000
	ProjImportCycle   Code = 5001
	ProjMissingFile   Code = 5002
	ProjDuplicateFile Code = 5003

	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		CfgInfo:             "Configuration information",
		CfgInvalid:          "Invalid configuration",
		CfgMissingField:     "Missing required configuration field",
		CfgUnknownPass:      "Unknown transform pass",
		CfgBadPattern:       "Invalid call pattern",
		CfgEntryNotFound:    "Configured entry class not found",
		CfgBadIndentWidth:   "Invalid indentation width",
		UpsInfo:             "Front-end information",
		UpsParse:            "Front-end parse diagnostic",
		UpsBind:             "Front-end binding diagnostic",
		UpsDuplicateID:      "Duplicate node id in bound tree",
		UpsBadTree:          "Malformed bound tree",
		GenInfo:             "Code generation information",
		GenUnsupported:      "Construct cannot be lowered",
		GenUndetermined:     "Literal value is not determined",
		GenMissingTypeArg:   "Macro call requires a generic type argument",
		GenUnimportedRef:    "Reference to a declaration in a file that is not imported",
		GenMissingEntry:     "Entry class has no main method",
		GenEntryNotStatic:   "Main method must be static",
		GenUnsupportedOp:    "Operator cannot be lowered",
		GenUnsupportedValue: "Expression cannot be used as a value",
		IOLoadFileError:     "I/O load file error",
		IOWriteFileError:    "I/O write file error",
		IOCacheError:        "Output cache error",
		ProjInfo:            "Project information",
		ProjImportCycle:     "Import cycle between files",
		ProjMissingFile:     "Imported file is not part of the compilation",
		ProjDuplicateFile:   "Two trees describe the same file",
		ObsTimings:          "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("UPS%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
