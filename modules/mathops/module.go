// Package mathops registers the "Math Operators" function group: elementwise
// arithmetic over two series and windowed min/max scans.
package mathops

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
	if err := c.LoadManifest(ctx, "mathops/manifest.hcl", manifestSrc); err != nil {
		return err
	}
	c.RegisterKernel("ADD", kernelADD)
	c.RegisterKernel("SUB", kernelSUB)
	c.RegisterKernel("MULT", kernelMULT)
	c.RegisterKernel("DIV", kernelDIV)
	c.RegisterKernel("MAX", kernelMAX)
	c.RegisterKernel("MIN", kernelMIN)
	c.RegisterKernel("MAXINDEX", kernelMAXINDEX)
	c.RegisterKernel("MININDEX", kernelMININDEX)
	return nil
}

func kernelADD(call *catalog.Call) catalog.Status {
	return call.EmitReal(0, talib.Add(call.InReal(0), call.InReal(1)), 0)
}

func kernelSUB(call *catalog.Call) catalog.Status {
	return call.EmitReal(0, talib.Sub(call.InReal(0), call.InReal(1)), 0)
}

func kernelMULT(call *catalog.Call) catalog.Status {
	return call.EmitReal(0, talib.Mult(call.InReal(0), call.InReal(1)), 0)
}

func kernelDIV(call *catalog.Call) catalog.Status {
	return call.EmitReal(0, talib.Div(call.InReal(0), call.InReal(1)), 0)
}

func kernelMAX(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period-1 >= len(in) {
		return call.EmitReal(0, nil, period-1)
	}
	return call.EmitReal(0, talib.Max(in, period), period-1)
}

func kernelMIN(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period-1 >= len(in) {
		return call.EmitReal(0, nil, period-1)
	}
	return call.EmitReal(0, talib.Min(in, period), period-1)
}

func kernelMAXINDEX(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period-1 >= len(in) {
		return call.EmitInt(0, nil, period-1)
	}
	return call.EmitInt(0, toInt32(talib.MaxIndex(in, period)), period-1)
}

func kernelMININDEX(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period-1 >= len(in) {
		return call.EmitInt(0, nil, period-1)
	}
	return call.EmitInt(0, toInt32(talib.MinIndex(in, period)), period-1)
}

// toInt32 narrows an index series; go-talib reports integer outputs as
// float64.
func toInt32(in []float64) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}
