package debugger

import (
	"fmt"

	"github.com/lookbusy1344/mips-toolchain/vm"
)

// ExpressionEvaluator evaluates break/watch/print expressions against a
// running VM and a label table, and remembers past results for $N-style
// history references. The grammar itself lives in ExprLexer/ExprParser;
// this type is the entry point commands.go calls into.
type ExpressionEvaluator struct {
	valueHistory []int64
}

func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{}
}

// EvaluateExpression evaluates expr and records the result in history.
func (e *ExpressionEvaluator) EvaluateExpression(expr string, machine *vm.VM, symbols map[string]int64) (int64, error) {
	tokens := NewExprLexer(expr).TokenizeAll()
	parser := NewExprParser(tokens, machine, symbols, e)
	result, err := parser.Parse()
	if err != nil {
		return 0, err
	}
	e.valueHistory = append(e.valueHistory, result)
	return result, nil
}

// Evaluate evaluates expr as a boolean condition (break/watch predicate).
func (e *ExpressionEvaluator) Evaluate(expr string, machine *vm.VM, symbols map[string]int64) (bool, error) {
	result, err := e.EvaluateExpression(expr, machine, symbols)
	if err != nil {
		return false, err
	}
	return result != 0, nil
}

// GetValueNumber returns how many values are in history so far.
func (e *ExpressionEvaluator) GetValueNumber() int {
	return len(e.valueHistory)
}

// GetValue returns the Nth (1-indexed) historical value.
func (e *ExpressionEvaluator) GetValue(number int) (int64, error) {
	if number < 1 || number > len(e.valueHistory) {
		return 0, fmt.Errorf("value $%d not in history", number)
	}
	return e.valueHistory[number-1], nil
}

// Reset clears the value history.
func (e *ExpressionEvaluator) Reset() {
	e.valueHistory = e.valueHistory[:0]
}
