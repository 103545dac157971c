package audit

import (
	"fmt"

	"github.com/darmiel/mcauth/internal/core"
)

const (
	TypeFile   = "file"
	TypeMemory = "memory"
	TypeNoop   = "noop"
)

// New builds the auditor selected in the config. Disabled auditing yields a NoopAuditor.
func New(enabled bool, typ, path string) (core.Auditor, error) {
	if !enabled {
		return NewNoopAuditor(), nil
	}
	switch typ {
	case TypeFile, "":
		if path == "" {
			return nil, fmt.Errorf("file auditor requires a path")
		}
		return NewFileAuditor(path)
	case TypeMemory:
		return NewInMemoryAuditor(), nil
	case TypeNoop:
		return NewNoopAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown audit type %q", typ)
	}
}
