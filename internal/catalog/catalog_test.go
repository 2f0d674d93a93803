package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const testManifest = `
	function "SCALE" {
		group  = "Test Ops"
		hint   = "Scale by a factor"
		kernel = "scale"

		input "inReal" {
			type = "real"
		}

		opt_input "optInFactor" {
			type         = "real_range"
			display_name = "Factor"
			default      = 2.0
			minimum      = 0.5
			maximum      = 10.0
		}

		opt_input "optInShape" {
			type         = "integer_list"
			display_name = "Shape"
			default      = 0

			choice "Flat" {
				value = 0
			}
			choice "Ramp" {
				value = 1
			}
		}

		output "outReal" {
			type  = "real"
			flags = ["line"]
		}
	}

	function "DELAY" {
		group  = "Test Ops"
		hint   = "Shift backwards by a period"
		kernel = "delay"

		input "inReal" {
			type = "real"
		}

		opt_input "optInTimePeriod" {
			type         = "integer_range"
			display_name = "Time Period"
			default      = 3
			minimum      = 1
			maximum      = 100
		}

		output "outReal" {
			type = "real"
		}
	}

	function "TAG" {
		group  = "Test Meta"
		kernel = "tag"

		input "inTag" {
			type = "integer"
		}

		output "outInteger" {
			type = "integer"
		}
	}
`

// testModule registers the fixture manifest together with small kernels that
// exercise defaults, lookback clipping and integer outputs.
type testModule struct{}

func (testModule) Register(ctx context.Context, c *Catalog) error {
	c.RegisterKernel("scale", func(call *Call) Status {
		in := call.InReal(0)
		factor := call.OptReal(0)
		aligned := make([]float64, len(in))
		for i, v := range in {
			aligned[i] = v * factor
		}
		return call.EmitReal(0, aligned, 0)
	})
	c.RegisterKernel("delay", func(call *Call) Status {
		in := call.InReal(0)
		period := int(call.OptInt(0))
		aligned := make([]float64, len(in))
		for i := period; i < len(in); i++ {
			aligned[i] = in[i-period]
		}
		return call.EmitReal(0, aligned, period)
	})
	c.RegisterKernel("tag", func(call *Call) Status {
		in := call.InInt(0)
		aligned := make([]int32, len(in))
		copy(aligned, in)
		return call.EmitInt(0, aligned, 0)
	})
	return c.LoadManifest(ctx, "test.hcl", []byte(testManifest))
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(context.Background(), testModule{})
	require.NoError(t, err)
	return c
}

func TestValidate_ManifestWithoutKernel(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.LoadManifest(context.Background(), "test.hcl", []byte(`
		function "ORPHAN" {
			group  = "Test Ops"
			kernel = "missing"
			output "outReal" {
				type = "real"
			}
		}
	`)))

	err := c.Validate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "kernel 'missing' which is not registered")
}

func TestValidate_KernelWithoutManifest(t *testing.T) {
	t.Parallel()

	c := New()
	c.RegisterKernel("orphan", func(*Call) Status { return Success })

	err := c.Validate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "kernel 'orphan' is registered but no manifest names it")
}

func TestRegisterKernel_DuplicatePanics(t *testing.T) {
	t.Parallel()

	c := New()
	c.RegisterKernel("dup", func(*Call) Status { return Success })
	require.Panics(t, func() {
		c.RegisterKernel("dup", func(*Call) Status { return Success })
	})
}

func TestLoadManifest_DuplicateFunction(t *testing.T) {
	t.Parallel()

	c := New()
	src := []byte(`
		function "SCALE" {
			group  = "Test Ops"
			kernel = "scale"
			output "outReal" {
				type = "real"
			}
		}
	`)
	require.NoError(t, c.LoadManifest(context.Background(), "a.hcl", src))
	err := c.LoadManifest(context.Background(), "b.hcl", src)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already registered")
}

func TestLookupAndMetadata(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)

	h, st := c.LookupFunc("SCALE")
	require.Equal(t, Success, st)
	require.NotEqual(t, Handle(0), h)

	_, st = c.LookupFunc("NOPE")
	require.Equal(t, FuncNotFound, st)

	info, st := c.FuncInfo(h)
	require.Equal(t, Success, st)
	require.Equal(t, "SCALE", info.Name)
	require.Equal(t, "Test Ops", info.Group)
	require.Equal(t, "Scale by a factor", info.Hint)
	require.Equal(t, 1, info.NbInput)
	require.Equal(t, 2, info.NbOptInput)
	require.Equal(t, 1, info.NbOutput)

	_, st = c.FuncInfo(Handle(0))
	require.Equal(t, InvalidHandle, st)
	_, st = c.FuncInfo(Handle(99))
	require.Equal(t, InvalidHandle, st)

	in, st := c.InputInfo(h, 0)
	require.Equal(t, Success, st)
	require.Equal(t, "inReal", in.Name)
	require.Equal(t, InputReal, in.Type)

	_, st = c.InputInfo(h, 1)
	require.Equal(t, BadParam, st)

	factor, st := c.OptInputInfo(h, 0)
	require.Equal(t, Success, st)
	require.Equal(t, "optInFactor", factor.Name)
	require.Equal(t, OptRealRange, factor.Type)
	require.Equal(t, 2.0, factor.Default.Real)
	require.True(t, factor.Min.Set)
	require.Equal(t, 0.5, factor.Min.Real)
	require.Equal(t, 10.0, factor.Max.Real)

	shape, st := c.OptInputInfo(h, 1)
	require.Equal(t, Success, st)
	require.Equal(t, OptIntegerList, shape.Type)
	require.Len(t, shape.Choices, 2)
	require.Equal(t, "Ramp", shape.Choices[1].Label)
	require.Equal(t, int32(1), shape.Choices[1].Integer)

	_, st = c.OptInputInfo(h, 2)
	require.Equal(t, BadParam, st)

	out, st := c.OutputInfo(h, 0)
	require.Equal(t, Success, st)
	require.Equal(t, "outReal", out.Name)
	require.Equal(t, OutputReal, out.Type)
	require.Equal(t, OutLine, out.Flags)

	_, st = c.OutputInfo(h, -1)
	require.Equal(t, BadParam, st)
}

func TestEnumeration(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)

	require.Equal(t, []string{"Test Meta", "Test Ops"}, c.GroupTable())

	names, st := c.FuncTable("")
	require.Equal(t, Success, st)
	require.Equal(t, []string{"DELAY", "SCALE", "TAG"}, names)

	names, st = c.FuncTable("Test Ops")
	require.Equal(t, Success, st)
	require.Equal(t, []string{"DELAY", "SCALE"}, names)

	_, st = c.FuncTable("No Such Group")
	require.Equal(t, GroupNotFound, st)
}

func TestParamHolder_Lifecycle(t *testing.T) {
	c := newTestCatalog(t)

	h, st := c.LookupFunc("SCALE")
	require.Equal(t, Success, st)

	require.Equal(t, 0, c.ActiveParamHolders())
	ph, st := c.ParamHolderAlloc(h)
	require.Equal(t, Success, st)
	require.Equal(t, 1, c.ActiveParamHolders())

	require.Equal(t, Success, c.ParamHolderFree(ph))
	require.Equal(t, 0, c.ActiveParamHolders())

	require.Equal(t, InvalidParamHolder, c.ParamHolderFree(ph))
	require.Equal(t, InvalidParamHolder, c.ParamHolderFree(nil))
	require.Equal(t, 0, c.ActiveParamHolders())

	_, st = c.ParamHolderAlloc(Handle(99))
	require.Equal(t, InvalidHandle, st)

	other := newTestCatalog(t)
	ph, st = c.ParamHolderAlloc(h)
	require.Equal(t, Success, st)
	require.Equal(t, InvalidParamHolder, other.ParamHolderFree(ph))
	require.Equal(t, Success, c.ParamHolderFree(ph))
}

func TestParamHolder_BindingErrors(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)

	h, _ := c.LookupFunc("SCALE")
	ph, st := c.ParamHolderAlloc(h)
	require.Equal(t, Success, st)
	defer c.ParamHolderFree(ph)

	require.Equal(t, InvalidParamFunction, ph.SetInputInt(0, []int32{1}))
	require.Equal(t, InvalidParamFunction, ph.SetInputReal(1, []float64{1}))
	require.Equal(t, BadParam, ph.SetInputReal(0, nil))

	require.Equal(t, InvalidParamFunction, ph.SetOptInputInt(0, 1))
	require.Equal(t, InvalidParamFunction, ph.SetOptInputReal(1, 1))
	require.Equal(t, InvalidParamFunction, ph.SetOptInputReal(9, 1))

	require.Equal(t, InvalidParamFunction, ph.SetOutputInt(0, []int32{0}))
	require.Equal(t, BadParam, ph.SetOutputReal(0, nil))

	require.Equal(t, Success, ph.SetInputReal(0, []float64{1, 2, 3}))
	require.Equal(t, Success, ph.SetOutputReal(0, make([]float64, 3)))

	released, _ := c.ParamHolderAlloc(h)
	require.Equal(t, Success, c.ParamHolderFree(released))
	require.Equal(t, InvalidParamHolder, released.SetInputReal(0, []float64{1}))
}

func TestCallFunc_StatusPaths(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	h, _ := c.LookupFunc("SCALE")

	data := []float64{1, 2, 3, 4, 5}

	newHolder := func(t *testing.T) *ParamHolder {
		t.Helper()
		ph, st := c.ParamHolderAlloc(h)
		require.Equal(t, Success, st)
		t.Cleanup(func() { c.ParamHolderFree(ph) })
		return ph
	}

	t.Run("invalid holder", func(t *testing.T) {
		_, _, st := c.CallFunc(nil, 0, 4)
		require.Equal(t, InvalidParamHolder, st)
	})

	t.Run("negative start", func(t *testing.T) {
		ph := newHolder(t)
		_, _, st := c.CallFunc(ph, -1, 4)
		require.Equal(t, OutOfRangeStartIndex, st)
	})

	t.Run("end before start", func(t *testing.T) {
		ph := newHolder(t)
		_, _, st := c.CallFunc(ph, 3, 2)
		require.Equal(t, OutOfRangeEndIndex, st)
	})

	t.Run("unbound input", func(t *testing.T) {
		ph := newHolder(t)
		require.Equal(t, Success, ph.SetOutputReal(0, make([]float64, 5)))
		_, _, st := c.CallFunc(ph, 0, 4)
		require.Equal(t, InputNotAllInitialized, st)
	})

	t.Run("input shorter than range", func(t *testing.T) {
		ph := newHolder(t)
		require.Equal(t, Success, ph.SetInputReal(0, data))
		require.Equal(t, Success, ph.SetOutputReal(0, make([]float64, 10)))
		_, _, st := c.CallFunc(ph, 0, 9)
		require.Equal(t, OutOfRangeEndIndex, st)
	})

	t.Run("unbound output", func(t *testing.T) {
		ph := newHolder(t)
		require.Equal(t, Success, ph.SetInputReal(0, data))
		_, _, st := c.CallFunc(ph, 0, 4)
		require.Equal(t, OutputNotAllInitialized, st)
	})

	t.Run("output buffer too small", func(t *testing.T) {
		ph := newHolder(t)
		require.Equal(t, Success, ph.SetInputReal(0, data))
		require.Equal(t, Success, ph.SetOutputReal(0, make([]float64, 2)))
		_, _, st := c.CallFunc(ph, 0, 4)
		require.Equal(t, BadParam, st)
	})

	t.Run("real scalar outside range", func(t *testing.T) {
		ph := newHolder(t)
		require.Equal(t, Success, ph.SetInputReal(0, data))
		require.Equal(t, Success, ph.SetOutputReal(0, make([]float64, 5)))
		require.Equal(t, Success, ph.SetOptInputReal(0, 99))
		_, _, st := c.CallFunc(ph, 0, 4)
		require.Equal(t, BadParam, st)
	})

	t.Run("list selector outside choices", func(t *testing.T) {
		ph := newHolder(t)
		require.Equal(t, Success, ph.SetInputReal(0, data))
		require.Equal(t, Success, ph.SetOutputReal(0, make([]float64, 5)))
		require.Equal(t, Success, ph.SetOptInputInt(1, 7))
		_, _, st := c.CallFunc(ph, 0, 4)
		require.Equal(t, BadParam, st)
	})

	t.Run("success with defaults", func(t *testing.T) {
		ph := newHolder(t)
		require.Equal(t, Success, ph.SetInputReal(0, data))
		out := make([]float64, 5)
		require.Equal(t, Success, ph.SetOutputReal(0, out))
		beg, nb, st := c.CallFunc(ph, 0, 4)
		require.Equal(t, Success, st)
		require.Equal(t, 0, beg)
		require.Equal(t, 5, nb)
		require.Equal(t, []float64{2, 4, 6, 8, 10}, out)
	})
}

func TestCallFunc_LookbackWindow(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	h, _ := c.LookupFunc("DELAY")

	data := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	call := func(t *testing.T, start, end int) (int, int, []float64) {
		t.Helper()
		ph, st := c.ParamHolderAlloc(h)
		require.Equal(t, Success, st)
		defer c.ParamHolderFree(ph)

		require.Equal(t, Success, ph.SetInputReal(0, data))
		out := make([]float64, end-start+1)
		require.Equal(t, Success, ph.SetOutputReal(0, out))

		beg, nb, st := c.CallFunc(ph, start, end)
		require.Equal(t, Success, st)
		return beg, nb, out
	}

	// Warm-up pushes the first valid index to the default period of 3.
	beg, nb, out := call(t, 0, 9)
	require.Equal(t, 3, beg)
	require.Equal(t, 7, nb)
	require.Equal(t, []float64{10, 20, 30, 40, 50, 60, 70}, out[beg:beg+nb])

	// A start past the lookback is honored as-is.
	beg, nb, out = call(t, 5, 9)
	require.Equal(t, 5, beg)
	require.Equal(t, 5, nb)
	require.Equal(t, []float64{30, 40, 50, 60, 70}, out[:nb])

	// A range entirely inside the warm-up yields zero elements.
	_, nb, _ = call(t, 0, 1)
	require.Equal(t, 0, nb)
}

func TestCallFunc_IntegerSeries(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	h, _ := c.LookupFunc("TAG")

	ph, st := c.ParamHolderAlloc(h)
	require.Equal(t, Success, st)
	defer c.ParamHolderFree(ph)

	require.Equal(t, Success, ph.SetInputInt(0, []int32{7, 8, 9}))
	out := make([]int32, 3)
	require.Equal(t, Success, ph.SetOutputInt(0, out))

	beg, nb, st := c.CallFunc(ph, 0, 2)
	require.Equal(t, Success, st)
	require.Equal(t, 0, beg)
	require.Equal(t, 3, nb)
	require.Equal(t, []int32{7, 8, 9}, out)
}

func TestStatus_RetCodeInfo(t *testing.T) {
	t.Parallel()

	enum, info := RetCodeInfo(Success)
	require.Equal(t, "Success", enum)
	require.Equal(t, "No error", info)

	enum, info = RetCodeInfo(BadParam)
	require.Equal(t, "BadParam", enum)
	require.NotEmpty(t, info)

	enum, info = RetCodeInfo(Status(9999))
	require.Equal(t, "UnknownErr", enum)
	require.Equal(t, "Unknown error", info)

	require.Equal(t, "FuncNotFound", FuncNotFound.String())
}
