package structure

import (
	"fmt"
	"strings"
)

// StepFailure records a generation step that was abandoned after
// exhausting its repair budget. Only the subtree under ParentPath is
// affected; siblings proceed normally.
type StepFailure struct {
	Level      int
	ParentPath string
	Err        error
}

func (f StepFailure) String() string {
	where := f.ParentPath
	if where == "" {
		where = "(root)"
	}
	return fmt.Sprintf("level %d at %s: %v", f.Level, where, f.Err)
}

// Report summarizes a run: what was produced and which steps failed.
type Report struct {
	Folders  int
	Files    int
	Failures []StepFailure
}

// Complete reports whether every step succeeded.
func (r *Report) Complete() bool {
	return len(r.Failures) == 0
}

// Summary renders a human-readable account of the run.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d folders, %d files", r.Folders, r.Files)
	if r.Complete() {
		b.WriteString(", all steps succeeded")
		return b.String()
	}
	fmt.Fprintf(&b, ", %d step(s) failed:", len(r.Failures))
	for _, f := range r.Failures {
		b.WriteString("\n  " + f.String())
	}
	return b.String()
}
