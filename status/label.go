package status

import (
	"sync/atomic"
	"unicode/utf8"
)

// MaxLabelLen bounds stored label text
const MaxLabelLen = 32

// Label is an atomic short string; the zero value reads ""
type Label struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, truncating to at most MaxLabelLen bytes on a rune boundary
func (l *Label) Store(val string) {
	if len(val) > MaxLabelLen {
		cut := MaxLabelLen
		for cut > 0 && !utf8.RuneStart(val[cut]) {
			cut--
		}
		val = val[:cut]
	}
	l.ptr.Store(&val)
}

func (l *Label) Load() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
