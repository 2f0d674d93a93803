package manifest

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// CoerceFloat interprets a cty value as a 64-bit float.
func CoerceFloat(v cty.Value) (float64, error) {
	if v == cty.NilVal || v.IsNull() {
		return 0, fmt.Errorf("value is not set")
	}
	num, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("value is not numeric: %w", err)
	}
	f, _ := num.AsBigFloat().Float64()
	return f, nil
}

// CoerceInt interprets a cty value as a 32-bit integer. Non-integral numbers
// are rejected rather than truncated.
func CoerceInt(v cty.Value) (int32, error) {
	f, err := CoerceFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("value %v is not a whole number", f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("value %v overflows a 32-bit integer", f)
	}
	return int32(f), nil
}

// FloatFromGo converts a native Go value into a 64-bit float by way of its
// implied cty type.
func FloatFromGo(v any) (float64, error) {
	cv, err := toCty(v)
	if err != nil {
		return 0, err
	}
	return CoerceFloat(cv)
}

// IntFromGo converts a native Go value into a 32-bit integer by way of its
// implied cty type.
func IntFromGo(v any) (int32, error) {
	cv, err := toCty(v)
	if err != nil {
		return 0, err
	}
	return CoerceInt(cv)
}

func toCty(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, fmt.Errorf("value is nil")
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}
