package catalog

// Call is the view a kernel gets of one invocation: the requested index
// range plus read access to the holder's bound parameters and Emit for
// writing outputs.
//
// Kernels compute over full input series and hand Emit an index-aligned
// result slice together with the algorithm's lookback; Emit clips the result
// to the requested range and records the reported begin index and element
// count. Entries of the output buffer outside that window are left as
// allocated.
type Call struct {
	ph         *ParamHolder
	start, end int

	begIdx    int
	nbElement int
	emitted   bool
}

// Start is the first requested index.
func (k *Call) Start() int { return k.start }

// End is the last requested index, inclusive.
func (k *Call) End() int { return k.end }

// InReal returns the real series bound at input index i.
func (k *Call) InReal(i int) []float64 { return k.ph.inReal[i] }

// InInt returns the integer series bound at input index i.
func (k *Call) InInt(i int) []int32 { return k.ph.inInt[i] }

// OptReal returns the real scalar at optional index i.
func (k *Call) OptReal(i int) float64 { return k.ph.optReal[i] }

// OptInt returns the integer scalar at optional index i.
func (k *Call) OptInt(i int) int32 { return k.ph.optInt[i] }

// EmitReal writes the valid window of an index-aligned real result into the
// output buffer bound at index i. lookback is the number of leading indices
// for which the algorithm has no valid value. When the lookback swallows the
// whole requested range the emitted window is empty and aligned may be nil.
func (k *Call) EmitReal(i int, aligned []float64, lookback int) Status {
	beg, nb, st := k.window(lookback, len(aligned))
	if st != Success {
		return st
	}
	if nb > 0 {
		copy(k.ph.outReal[i][beg-k.start:], aligned[beg:k.end+1])
	}
	return Success
}

// EmitInt is EmitReal for integer outputs.
func (k *Call) EmitInt(i int, aligned []int32, lookback int) Status {
	beg, nb, st := k.window(lookback, len(aligned))
	if st != Success {
		return st
	}
	if nb > 0 {
		copy(k.ph.outInt[i][beg-k.start:], aligned[beg:k.end+1])
	}
	return Success
}

// window computes the valid [beg, end] slice of the requested range for a
// given lookback and checks it against every emitted output. All outputs of
// one call must agree on the window.
func (k *Call) window(lookback, alignedLen int) (beg, nb int, st Status) {
	if lookback < 0 {
		return 0, 0, InternalError
	}
	beg = k.start
	if lookback > beg {
		beg = lookback
	}
	if beg > k.end {
		beg, nb = 0, 0
	} else {
		nb = k.end - beg + 1
	}
	// An empty window carries no data, so the aligned slice (possibly nil)
	// only has to cover the range when something will be copied.
	if nb > 0 && alignedLen <= k.end {
		return 0, 0, InternalError
	}
	if k.emitted {
		if beg != k.begIdx || nb != k.nbElement {
			return 0, 0, InternalError
		}
		return beg, nb, Success
	}
	k.begIdx, k.nbElement = beg, nb
	k.emitted = true
	return beg, nb, Success
}

// CallFunc invokes a fully bound holder over [start, end]. It reports the
// first index for which output is valid (which exceeds start when the
// algorithm needs warm-up history) and the count of valid elements written.
func (c *Catalog) CallFunc(ph *ParamHolder, start, end int) (outBegIdx, outNbElement int, st Status) {
	if ph == nil || ph.released || ph.c != c {
		return 0, 0, InvalidParamHolder
	}
	if ph.fn.kernel == nil {
		return 0, 0, InternalError
	}
	if start < 0 {
		return 0, 0, OutOfRangeStartIndex
	}
	if end < start {
		return 0, 0, OutOfRangeEndIndex
	}

	// Every input must be bound and long enough to cover the range.
	for i, bound := range ph.inBound {
		if !bound {
			return 0, 0, InputNotAllInitialized
		}
		n := len(ph.inReal[i])
		if ph.fn.inputs[i].Type == InputInteger {
			n = len(ph.inInt[i])
		}
		if end >= n {
			return 0, 0, OutOfRangeEndIndex
		}
	}

	// Every output must be bound and cover the range.
	size := end - start + 1
	for i, bound := range ph.outBound {
		if !bound {
			return 0, 0, OutputNotAllInitialized
		}
		n := len(ph.outReal[i])
		if ph.fn.outputs[i].Type == OutputInteger {
			n = len(ph.outInt[i])
		}
		if n < size {
			return 0, 0, BadParam
		}
	}

	// Optional scalars must respect the declared range or choice set.
	for i, opt := range ph.fn.optInputs {
		switch opt.Type {
		case OptRealRange:
			v := ph.optReal[i]
			if (opt.Min.Set && v < opt.Min.Real) || (opt.Max.Set && v > opt.Max.Real) {
				return 0, 0, BadParam
			}
		case OptIntegerRange:
			v := ph.optInt[i]
			if (opt.Min.Set && v < opt.Min.Integer) || (opt.Max.Set && v > opt.Max.Integer) {
				return 0, 0, BadParam
			}
		case OptRealList:
			// Lists are supplied as integer selectors on this ABI.
			v := ph.optInt[i]
			ok := false
			for _, ch := range opt.Choices {
				if int32(ch.Real) == v {
					ok = true
					break
				}
			}
			if !ok {
				return 0, 0, BadParam
			}
		case OptIntegerList:
			v := ph.optInt[i]
			ok := false
			for _, ch := range opt.Choices {
				if ch.Integer == v {
					ok = true
					break
				}
			}
			if !ok {
				return 0, 0, BadParam
			}
		}
	}

	call := &Call{ph: ph, start: start, end: end}
	if st := ph.fn.kernel(call); st != Success {
		return 0, 0, st
	}
	if !call.emitted {
		return 0, 0, InternalError
	}
	return call.begIdx, call.nbElement, Success
}
