package sema

import (
	"fmt"

	"github.com/michael-golfi/rules/internal/rlerrors"
)

// errorfAt raises a SourceException anchored at span, mirroring
// internal/parser's errorf — the analyzer does not attempt error
// recovery either (spec.md §4.6 gives no recovery strategy, and the
// top-level Analyze only needs to report the first semantic error).
func (a *Analyzer) errorfAt(code rlerrors.Code, span rlerrors.Span, offender, format string, args ...any) {
	panic(rlerrors.New(code, a.source, span, fmt.Sprintf(format, args...), offender))
}
