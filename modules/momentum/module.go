// Package momentum registers the "Momentum Indicators" function group.
package momentum

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
	if err := c.LoadManifest(ctx, "momentum/manifest.hcl", manifestSrc); err != nil {
		return err
	}
	c.RegisterKernel("RSI", kernelRSI)
	c.RegisterKernel("ROC", kernelROC)
	c.RegisterKernel("MOM", kernelMOM)
	return nil
}

func kernelRSI(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period >= len(in) {
		return call.EmitReal(0, nil, period)
	}
	return call.EmitReal(0, talib.Rsi(in, period), period)
}

func kernelROC(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period >= len(in) {
		return call.EmitReal(0, nil, period)
	}
	return call.EmitReal(0, talib.Roc(in, period), period)
}

func kernelMOM(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period >= len(in) {
		return call.EmitReal(0, nil, period)
	}
	return call.EmitReal(0, talib.Mom(in, period), period)
}
