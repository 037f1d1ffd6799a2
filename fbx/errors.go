package fbx

import "fmt"

// warnings accumulates recoverable per-object diagnostics encountered
// during object-factory construction (spec.md §7: "failures during
// object construction for a single optional category are logged and the
// offending Object is omitted"). The last entry backs Scene.LastError().
type warnings struct {
	messages []string
}

func (w *warnings) note(format string, args ...interface{}) {
	w.messages = append(w.messages, fmt.Sprintf(format, args...))
}

func (w *warnings) last() string {
	if len(w.messages) == 0 {
		return ""
	}
	return w.messages[len(w.messages)-1]
}
