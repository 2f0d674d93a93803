package abstract

import (
	"context"
	"fmt"

	"github.com/dpinte/talib-wrappers/internal/catalog"
	"github.com/dpinte/talib-wrappers/internal/ctxlog"
)

// Output is one output buffer of an invocation. Exactly one of Real and
// Integer is non-nil, matching the output's declared type.
type Output struct {
	Name    string
	Real    []float64
	Integer []int32
}

// Result is the outcome of one invocation. Outputs follow the function's
// declared output order. BegIdx is the first index for which output is
// valid; it exceeds the requested start when the algorithm needs warm-up
// history. NbElement is the count of valid elements written from that
// offset on; buffer entries outside that window are unspecified.
type Result struct {
	Outputs   []Output
	BegIdx    int
	NbElement int
}

// Call invokes the function over the inclusive index range [startIdx,
// endIdx]. Positional inputs are bound in declared order; options are bound
// by optional-parameter name, with unnamed parameters left at their declared
// defaults. One output buffer of length endIdx-startIdx+1 is allocated per
// declared output.
//
// The per-call parameter holder is released on every path before Call
// returns. No partial outputs are ever handed back: any failure aborts the
// call with a typed error.
func (f *Function) Call(ctx context.Context, startIdx, endIdx int, inputs []any, options map[string]any) (res *Result, err error) {
	logger := ctxlog.FromContext(ctx)

	// Arity and range validation happens before anything native exists.
	if len(inputs) < f.info.NbInput {
		return nil, &ArityError{Function: f.info.Name, Msg: "not enough inputs", Got: len(inputs), Want: f.info.NbInput}
	}
	if len(options) > f.info.NbOptInput {
		return nil, &ArityError{Function: f.info.Name, Msg: "too many inputs", Got: len(options), Want: f.info.NbOptInput}
	}
	if startIdx < 0 || endIdx < startIdx {
		return nil, fmt.Errorf("%s: %w: start %d, end %d", f.info.Name, ErrInvalidRange, startIdx, endIdx)
	}

	inDesc, err := f.InputDescription()
	if err != nil {
		return nil, err
	}
	optDesc, err := f.OptionalInputDescription()
	if err != nil {
		return nil, err
	}
	outDesc, err := f.OutputDescription()
	if err != nil {
		return nil, err
	}

	// Every supplied option must match a declared optional parameter.
	for name := range options {
		known := false
		for _, opt := range optDesc {
			if opt.Name() == name {
				known = true
				break
			}
		}
		if !known {
			return nil, &UnknownOptionError{Function: f.info.Name, Option: name}
		}
	}

	ph, st := f.lib.cat.ParamHolderAlloc(f.handle)
	if err := checkStatus(st, fmt.Sprintf("allocate parameter holder for %s", f.info.Name)); err != nil {
		return nil, err
	}
	defer func() {
		if st := f.lib.cat.ParamHolderFree(ph); st != catalog.Success && err == nil {
			res, err = nil, checkStatus(st, fmt.Sprintf("release parameter holder for %s", f.info.Name))
		}
	}()

	for i := 0; i < f.info.NbInput; i++ {
		if err := inDesc[i].addToHolder(ph, inputs[i]); err != nil {
			return nil, err
		}
	}

	for _, opt := range optDesc {
		value, supplied := options[opt.Name()]
		if !supplied {
			continue
		}
		if err := opt.addToHolder(ph, value); err != nil {
			return nil, err
		}
	}

	size := endIdx - startIdx + 1
	outputs := make([]Output, 0, f.info.NbOutput)
	for _, out := range outDesc {
		buf, err := out.addToHolder(ph, size)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, buf)
	}

	begIdx, nbElement, st := f.lib.cat.CallFunc(ph, startIdx, endIdx)
	if err := checkStatus(st, fmt.Sprintf("call %s", f.info.Name)); err != nil {
		return nil, err
	}

	logger.Debug("Function invoked.", "function", f.info.Name, "start", startIdx, "end", endIdx, "beg_idx", begIdx, "nb_element", nbElement)
	return &Result{Outputs: outputs, BegIdx: begIdx, NbElement: nbElement}, nil
}
