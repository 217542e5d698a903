package eval

// FlowAction is the outcome of evaluating one statement (spec.md §4.7):
// "statement evaluation returns a Flow value with action ∈ {PROCEED,
// RERUN, BREAK(label?), CONTINUE(label?), RETURN}".
type FlowAction int

const (
	// Proceed means "fall through to the next statement"; the default
	// result of every statement kind that doesn't interrupt control flow.
	Proceed FlowAction = iota
	// Rerun is used by the shell to re-evaluate the same statement without
	// popping it (spec.md §6's statement-mode REPL loop never advances a
	// persistent statement list, so Rerun exists for API completeness —
	// RulesLang's own shell drives each submission as a fresh one-shot
	// evaluation and never actually emits it).
	Rerun
	Break
	Continue
	Return
)

// Flow is the control-flow signal a statement evaluation produces,
// bubbling up through nested blocks until a LoopStatement or
// FunctionDefinition consumes it.
type Flow struct {
	Action FlowAction
	Label  string // set for labeled Break/Continue
	Value  *Value // set for Return carrying a value
}

func proceed() Flow           { return Flow{Action: Proceed} }
func breakFlow(label string) Flow    { return Flow{Action: Break, Label: label} }
func continueFlow(label string) Flow { return Flow{Action: Continue, Label: label} }
func returnFlow(v *Value) Flow       { return Flow{Action: Return, Value: v} }
