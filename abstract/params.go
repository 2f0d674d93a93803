package abstract

import (
	"fmt"
	"strings"

	"github.com/dpinte/talib-wrappers/internal/catalog"
	"github.com/dpinte/talib-wrappers/internal/manifest"
)

// InputParameterInfo is the read-only description of one positional input.
type InputParameterInfo struct {
	function string
	index    int
	info     catalog.InputInfo
}

// Name is the parameter's declared name, e.g. "inReal".
func (p InputParameterInfo) Name() string { return p.info.Name }

// Type is the parameter's kind: Price, Real or Integer.
func (p InputParameterInfo) Type() catalog.InputType { return p.info.Type }

// Flags is the bitmask of price-component hints.
func (p InputParameterInfo) Flags() catalog.InputFlags { return p.info.Flags }

// addToHolder coerces a caller-supplied value into the parameter's native
// shape and binds it at this parameter's index.
func (p InputParameterInfo) addToHolder(ph *catalog.ParamHolder, value any) error {
	switch p.info.Type {
	case catalog.InputReal:
		data, ok := value.([]float64)
		if !ok {
			return fmt.Errorf("%s: input '%s' must be a []float64, got %T", p.function, p.info.Name, value)
		}
		return checkStatus(ph.SetInputReal(p.index, data), fmt.Sprintf("bind input '%s' of %s", p.info.Name, p.function))
	case catalog.InputInteger:
		data, err := coerceIntSeries(value)
		if err != nil {
			return fmt.Errorf("%s: input '%s': %w", p.function, p.info.Name, err)
		}
		return checkStatus(ph.SetInputInt(p.index, data), fmt.Sprintf("bind input '%s' of %s", p.info.Name, p.function))
	case catalog.InputPrice:
		return &UnsupportedParameterError{Function: p.function, Parameter: p.info.Name}
	}
	return fmt.Errorf("%s: input '%s' has unknown type tag %d", p.function, p.info.Name, p.info.Type)
}

func coerceIntSeries(value any) ([]int32, error) {
	switch v := value.(type) {
	case []int32:
		return v, nil
	case []int:
		out := make([]int32, len(v))
		for i, n := range v {
			out[i] = int32(n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a []int32 or []int, got %T", value)
	}
}

// OptionalInputParameterInfo is the read-only description of one optional,
// keyword-style input.
type OptionalInputParameterInfo struct {
	function string
	index    int
	info     catalog.OptInputInfo
}

// Name is the parameter's declared name, e.g. "optInTimePeriod".
func (p OptionalInputParameterInfo) Name() string { return p.info.Name }

// DisplayName is the human-oriented name, e.g. "Time Period".
func (p OptionalInputParameterInfo) DisplayName() string { return p.info.DisplayName }

// Hint is a short description of the parameter's meaning.
func (p OptionalInputParameterInfo) Hint() string { return p.info.Hint }

// Type is the parameter's kind: RealRange, RealList, IntegerRange or
// IntegerList.
func (p OptionalInputParameterInfo) Type() catalog.OptInputType { return p.info.Type }

// Flag is the display hint: "percent", "degree", "currency", "advanced" or
// empty.
func (p OptionalInputParameterInfo) Flag() string { return p.info.Flag }

// Precision is the suggested display precision for real ranges.
func (p OptionalInputParameterInfo) Precision() int { return p.info.Precision }

// Default is the value applied when a caller does not supply the parameter:
// a float64 for the real-valued kinds, an int32 for the integer-valued ones.
func (p OptionalInputParameterInfo) Default() any {
	switch p.info.Type {
	case catalog.OptRealRange, catalog.OptRealList:
		return p.info.Default.Real
	default:
		return p.info.Default.Integer
	}
}

// Summary renders the parameter's constraint: "[min-max] (precision)" for
// real ranges, "[min-max]" for integer ranges, and a comma-joined
// "value:label" sequence for enumerated lists.
func (p OptionalInputParameterInfo) Summary() string {
	switch p.info.Type {
	case catalog.OptRealRange:
		return fmt.Sprintf("[%g-%g] (%d)", p.info.Min.Real, p.info.Max.Real, p.info.Precision)
	case catalog.OptIntegerRange:
		return fmt.Sprintf("[%d-%d]", p.info.Min.Integer, p.info.Max.Integer)
	case catalog.OptRealList:
		parts := make([]string, len(p.info.Choices))
		for i, c := range p.info.Choices {
			parts[i] = fmt.Sprintf("%g:%s", c.Real, c.Label)
		}
		return strings.Join(parts, ",")
	case catalog.OptIntegerList:
		parts := make([]string, len(p.info.Choices))
		for i, c := range p.info.Choices {
			parts[i] = fmt.Sprintf("%d:%s", c.Integer, c.Label)
		}
		return strings.Join(parts, ",")
	}
	return ""
}

// addToHolder coerces and sets a caller-supplied value at this parameter's
// index. Real ranges are real-typed scalars on the native ABI; list-typed
// and integer-range parameters are all integer-typed.
func (p OptionalInputParameterInfo) addToHolder(ph *catalog.ParamHolder, value any) error {
	op := fmt.Sprintf("set optional input '%s' of %s", p.info.Name, p.function)
	if p.info.Type == catalog.OptRealRange {
		f, err := manifest.FloatFromGo(value)
		if err != nil {
			return fmt.Errorf("%s: optional input '%s': %w", p.function, p.info.Name, err)
		}
		return checkStatus(ph.SetOptInputReal(p.index, f), op)
	}
	n, err := manifest.IntFromGo(value)
	if err != nil {
		return fmt.Errorf("%s: optional input '%s': %w", p.function, p.info.Name, err)
	}
	return checkStatus(ph.SetOptInputInt(p.index, n), op)
}

// OutputParameterInfo is the read-only description of one output.
type OutputParameterInfo struct {
	function string
	index    int
	info     catalog.OutputInfo
}

// Name is the output's declared name, e.g. "outReal".
func (p OutputParameterInfo) Name() string { return p.info.Name }

// Type is the output's kind: Real or Integer.
func (p OutputParameterInfo) Type() catalog.OutputType { return p.info.Type }

// Flags is the bitmask of rendering hints.
func (p OutputParameterInfo) Flags() catalog.OutputFlags { return p.info.Flags }

// addToHolder allocates a zero-initialized buffer of the requested length,
// binds it at this output's index and returns it as the eventual result
// slot; the native call fills it in place.
func (p OutputParameterInfo) addToHolder(ph *catalog.ParamHolder, size int) (Output, error) {
	op := fmt.Sprintf("bind output '%s' of %s", p.info.Name, p.function)
	switch p.info.Type {
	case catalog.OutputReal:
		buf := make([]float64, size)
		if err := checkStatus(ph.SetOutputReal(p.index, buf), op); err != nil {
			return Output{}, err
		}
		return Output{Name: p.info.Name, Real: buf}, nil
	case catalog.OutputInteger:
		buf := make([]int32, size)
		if err := checkStatus(ph.SetOutputInt(p.index, buf), op); err != nil {
			return Output{}, err
		}
		return Output{Name: p.info.Name, Integer: buf}, nil
	}
	return Output{}, fmt.Errorf("%s: output '%s' has unknown type tag %d", p.function, p.info.Name, p.info.Type)
}
