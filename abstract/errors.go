package abstract

import (
	"errors"
	"fmt"

	"github.com/dpinte/talib-wrappers/internal/catalog"
)

// ErrInvalidRange reports a call whose [start, end] indices are not a valid
// range.
var ErrInvalidRange = errors.New("invalid index range")

// ResolutionError reports a function name unknown to the catalog, or a
// resolved handle whose metadata could not be fetched. A descriptor is never
// constructed in a partial state.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve function '%s': %v", e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ArityError reports a call with too few positional inputs or too many
// optional inputs. It is raised before any native binding occurs.
type ArityError struct {
	Function string
	Msg      string
	Got      int
	Want     int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: %s (got %d, declared %d)", e.Function, e.Msg, e.Got, e.Want)
}

// UnknownOptionError reports an optional input name that matches no declared
// optional parameter of the function.
type UnknownOptionError struct {
	Function string
	Option   string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("%s: unknown optional input '%s'", e.Function, e.Option)
}

// UnsupportedParameterError reports a parameter whose type the binding layer
// does not support. Composite price inputs are the one known case.
type UnsupportedParameterError struct {
	Function  string
	Parameter string
}

func (e *UnsupportedParameterError) Error() string {
	return fmt.Sprintf("%s: input parameter '%s' has a composite price type, which is not supported", e.Function, e.Parameter)
}

// NativeCallError reports a non-success status from the catalog. It carries
// the catalog's enum spelling and description plus the operation that was
// being attempted.
type NativeCallError struct {
	Op   string
	Code catalog.Status
	Enum string
	Info string
}

func (e *NativeCallError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Enum, e.Info)
}

// checkStatus is the single point where catalog statuses become errors. A
// Success code yields nil; anything else yields a NativeCallError enriched
// with the catalog's ret-code description and the given context message.
func checkStatus(st catalog.Status, op string) error {
	if st == catalog.Success {
		return nil
	}
	enum, info := catalog.RetCodeInfo(st)
	return &NativeCallError{Op: op, Code: st, Enum: enum, Info: info}
}
