// Package statistic registers the "Statistic Functions" group.
package statistic

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
	if err := c.LoadManifest(ctx, "statistic/manifest.hcl", manifestSrc); err != nil {
		return err
	}
	c.RegisterKernel("STDDEV", kernelSTDDEV)
	c.RegisterKernel("VAR", kernelVAR)
	return nil
}

func kernelSTDDEV(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	nbDev := call.OptReal(1)
	in := call.InReal(0)
	if period-1 >= len(in) {
		return call.EmitReal(0, nil, period-1)
	}
	return call.EmitReal(0, talib.StdDev(in, period, nbDev), period-1)
}

func kernelVAR(call *catalog.Call) catalog.Status {
	period := int(call.OptInt(0))
	in := call.InReal(0)
	if period-1 >= len(in) {
		return call.EmitReal(0, nil, period-1)
	}
	return call.EmitReal(0, talib.Var(in, period), period-1)
}
