package ndops

import "fmt"

//ShapeError reports arrays whose shapes are incompatible with an operation.
//Expected and Actual are quoted in the message whenever they are set.
type ShapeError struct {
	Op       string
	Expected []int
	Actual   []int
	Msg      string
}

func (e *ShapeError) Error() string {
	if e.Expected == nil && e.Actual == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: expected %v but got %v", e.Op, e.Msg, e.Expected, e.Actual)
}

//ValueError reports an invalid flag or parameter value.
type ValueError struct {
	Op  string
	Msg string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func shapeErrorf(op string, expected, actual []int, format string, args ...interface{}) *ShapeError {
	return &ShapeError{
		Op:       op,
		Expected: cloneShape(expected),
		Actual:   cloneShape(actual),
		Msg:      fmt.Sprintf(format, args...),
	}
}

func valueErrorf(op, format string, args ...interface{}) *ValueError {
	return &ValueError{Op: op, Msg: fmt.Sprintf(format, args...)}
}
