package catalog

// ParamHolder is the per-invocation parameter state for one function: bound
// input series, optional scalars and output buffers, addressed by the dense
// per-category indices the function's metadata declares.
//
// A holder is exclusively owned by one invocation. It must be released with
// ParamHolderFree on every exit path; the catalog counts live holders so a
// missed release is observable.
type ParamHolder struct {
	c  *Catalog
	fn *function

	inReal  [][]float64
	inInt   [][]int32
	inBound []bool

	optReal []float64
	optInt  []int32

	outReal  [][]float64
	outInt   [][]int32
	outBound []bool

	released bool
}

// ParamHolderAlloc allocates fresh parameter state for a function. Optional
// parameters start at their declared defaults.
func (c *Catalog) ParamHolderAlloc(h Handle) (*ParamHolder, Status) {
	fn, st := c.lookup(h)
	if st != Success {
		return nil, st
	}

	ph := &ParamHolder{
		c:        c,
		fn:       fn,
		inReal:   make([][]float64, fn.info.NbInput),
		inInt:    make([][]int32, fn.info.NbInput),
		inBound:  make([]bool, fn.info.NbInput),
		optReal:  make([]float64, fn.info.NbOptInput),
		optInt:   make([]int32, fn.info.NbOptInput),
		outReal:  make([][]float64, fn.info.NbOutput),
		outInt:   make([][]int32, fn.info.NbOutput),
		outBound: make([]bool, fn.info.NbOutput),
	}

	for i, opt := range fn.optInputs {
		switch opt.Type {
		case OptRealRange:
			ph.optReal[i] = opt.Default.Real
		case OptRealList:
			// Real lists are selected by integer on this ABI.
			ph.optInt[i] = int32(opt.Default.Real)
		default:
			ph.optInt[i] = opt.Default.Integer
		}
	}

	c.liveHolders.Add(1)
	return ph, Success
}

// ParamHolderFree releases a holder. Releasing twice reports
// InvalidParamHolder and does not disturb the live-holder count.
func (c *Catalog) ParamHolderFree(ph *ParamHolder) Status {
	if ph == nil || ph.released || ph.c != c {
		return InvalidParamHolder
	}
	ph.released = true
	ph.inReal, ph.inInt = nil, nil
	ph.outReal, ph.outInt = nil, nil
	c.liveHolders.Add(-1)
	return Success
}

// SetInputReal binds a real series at input index i.
func (ph *ParamHolder) SetInputReal(i int, data []float64) Status {
	if ph == nil || ph.released {
		return InvalidParamHolder
	}
	if i < 0 || i >= len(ph.inBound) {
		return InvalidParamFunction
	}
	if ph.fn.inputs[i].Type != InputReal {
		return InvalidParamFunction
	}
	if data == nil {
		return BadParam
	}
	ph.inReal[i] = data
	ph.inBound[i] = true
	return Success
}

// SetInputInt binds an integer series at input index i.
func (ph *ParamHolder) SetInputInt(i int, data []int32) Status {
	if ph == nil || ph.released {
		return InvalidParamHolder
	}
	if i < 0 || i >= len(ph.inBound) {
		return InvalidParamFunction
	}
	if ph.fn.inputs[i].Type != InputInteger {
		return InvalidParamFunction
	}
	if data == nil {
		return BadParam
	}
	ph.inInt[i] = data
	ph.inBound[i] = true
	return Success
}

// SetOptInputReal sets a real scalar at optional index i. Only real-range
// parameters are real-typed on this ABI.
func (ph *ParamHolder) SetOptInputReal(i int, v float64) Status {
	if ph == nil || ph.released {
		return InvalidParamHolder
	}
	if i < 0 || i >= len(ph.optReal) {
		return InvalidParamFunction
	}
	if ph.fn.optInputs[i].Type != OptRealRange {
		return InvalidParamFunction
	}
	ph.optReal[i] = v
	return Success
}

// SetOptInputInt sets an integer scalar at optional index i. List-typed and
// integer-range parameters are all integer-typed on this ABI.
func (ph *ParamHolder) SetOptInputInt(i int, v int32) Status {
	if ph == nil || ph.released {
		return InvalidParamHolder
	}
	if i < 0 || i >= len(ph.optInt) {
		return InvalidParamFunction
	}
	if ph.fn.optInputs[i].Type == OptRealRange {
		return InvalidParamFunction
	}
	ph.optInt[i] = v
	return Success
}

// SetOutputReal binds a real output buffer at output index i.
func (ph *ParamHolder) SetOutputReal(i int, buf []float64) Status {
	if ph == nil || ph.released {
		return InvalidParamHolder
	}
	if i < 0 || i >= len(ph.outBound) {
		return InvalidParamFunction
	}
	if ph.fn.outputs[i].Type != OutputReal {
		return InvalidParamFunction
	}
	if buf == nil {
		return BadParam
	}
	ph.outReal[i] = buf
	ph.outBound[i] = true
	return Success
}

// SetOutputInt binds an integer output buffer at output index i.
func (ph *ParamHolder) SetOutputInt(i int, buf []int32) Status {
	if ph == nil || ph.released {
		return InvalidParamHolder
	}
	if i < 0 || i >= len(ph.outBound) {
		return InvalidParamFunction
	}
	if ph.fn.outputs[i].Type != OutputInteger {
		return InvalidParamFunction
	}
	if buf == nil {
		return BadParam
	}
	ph.outInt[i] = buf
	ph.outBound[i] = true
	return Success
}
