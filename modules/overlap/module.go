// Package overlap registers the "Overlap Studies" function group: the moving
// average family, midpoint and Bollinger bands.
package overlap

import (
	"context"
	_ "embed"

	talib "github.com/markcheno/go-talib"

	"github.com/dpinte/talib-wrappers/internal/catalog"
)

//go:embed manifest.hcl
var manifestSrc []byte

// Module implements catalog.Module for this group.
type Module struct{}

// Register loads the group manifest and registers its kernels.
func (m *Module) Register(ctx context.Context, c *catalog.Catalog) error {
	if err := c.LoadManifest(ctx, "overlap/manifest.hcl", manifestSrc); err != nil {
		return err
	}
	c.RegisterKernel("MA", kernelMA)
	c.RegisterKernel("SMA", kernelSMA)
	c.RegisterKernel("EMA", kernelEMA)
	c.RegisterKernel("WMA", kernelWMA)
	c.RegisterKernel("MIDPOINT", kernelMIDPOINT)
	c.RegisterKernel("BBANDS", kernelBBANDS)
	return nil
}

func kernelMA(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	maType := talib.MaType(call.OptInt(1))
	in := call.InReal(0)
	if period == 1 {
		// Degenerate window: the series itself, no warm-up.
		return call.EmitReal(0, in, 0)
	}
	lookback := maLookback(maType, period)
	if lookback >= len(in) {
		return call.EmitReal(0, nil, lookback)
	}
	return call.EmitReal(0, talib.Ma(in, period, maType), lookback)
}

func kernelSMA(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period-1 >= len(in) {
		return call.EmitReal(0, nil, period-1)
	}
	return call.EmitReal(0, talib.Sma(in, period), period-1)
}

func kernelEMA(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period-1 >= len(in) {
		return call.EmitReal(0, nil, period-1)
	}
	return call.EmitReal(0, talib.Ema(in, period), period-1)
}

func kernelWMA(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period-1 >= len(in) {
		return call.EmitReal(0, nil, period-1)
	}
	return call.EmitReal(0, talib.Wma(in, period), period-1)
}

func kernelMIDPOINT(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period-1 >= len(in) {
		return call.EmitReal(0, nil, period-1)
	}
	return call.EmitReal(0, talib.MidPoint(in, period), period-1)
}

func kernelBBANDS(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	devUp := call.OptReal(1)
	devDn := call.OptReal(2)
	maType := talib.MaType(call.OptInt(3))
	in := call.InReal(0)

	lookback := maLookback(maType, period)
	var upper, middle, lower []float64
	if lookback < len(in) {
		upper, middle, lower = talib.BBands(in, period, devUp, devDn, maType)
	}
	if st := call.EmitReal(0, upper, lookback); st != catalog.Success {
		return st
	}
	if st := call.EmitReal(1, middle, lookback); st != catalog.Success {
		return st
	}
	return call.EmitReal(2, lower, lookback)
}

// maLookback is the warm-up period of each moving average type for a given
// time period.
func maLookback(maType talib.MaType, period int) int {
	switch maType {
	case talib.DEMA:
		return 2 * (period - 1)
	case talib.TEMA:
		return 3 * (period - 1)
	case talib.MAMA:
		return 32
	case talib.T3MA:
		return 6 * (period - 1)
	default:
		return period - 1
	}
}
