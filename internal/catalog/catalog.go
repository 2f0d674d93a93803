// Package catalog implements the self-describing function table this library
// fronts: a closed, in-process registry of numeric functions addressed by
// opaque handles.
//
// The package deliberately keeps the shape of a native ABI. Every call
// reports a Status instead of an error, metadata is fetched per index, and
// per-invocation state lives in an explicitly allocated ParamHolder. The
// abstract package on top of this is the only place those codes are turned
// into Go errors; keeping the boundary flat here keeps that translation a
// single choke point.
//
// A catalog entry has two halves that must agree: the manifest (an HCL
// description of the function's group, inputs, optional inputs and outputs)
// and the kernel (the registered Go compute function, which delegates the
// math to go-talib). Validate performs the parity check after all modules
// have registered.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"

	"github.com/dpinte/talib-wrappers/internal/ctxlog"
	"github.com/dpinte/talib-wrappers/internal/manifest"
)

// Handle is the opaque identifier of one catalog function. The zero Handle
// is never valid.
type Handle int

// KernelFunc is the compute half of a catalog entry. It reads bound inputs
// and optional scalars from the Call, writes every declared output through
// Emit, and reports a status.
type KernelFunc func(call *Call) Status

// Module is one registerable group of catalog functions: an embedded
// manifest plus the kernels it names.
type Module interface {
	Register(ctx context.Context, c *Catalog) error
}

// function is one fully assembled catalog entry.
type function struct {
	info       FuncInfo
	inputs     []InputInfo
	optInputs  []OptInputInfo
	outputs    []OutputInfo
	kernelName string
	kernel     KernelFunc
}

// Catalog is the function table. It is mutable only during the load phase;
// after Validate succeeds it is treated as frozen and is safe for concurrent
// readers, with per-call state confined to ParamHolders.
type Catalog struct {
	funcs   []*function
	byName  map[string]Handle
	kernels map[string]KernelFunc

	liveHolders atomic.Int64
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byName:  make(map[string]Handle),
		kernels: make(map[string]KernelFunc),
	}
}

// Load registers every module and then validates manifest/kernel parity.
func Load(ctx context.Context, mods ...Module) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	c := New()
	for _, mod := range mods {
		if err := mod.Register(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to register module: %w", err)
		}
	}
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Catalog loaded.", "functions", len(c.funcs))
	return c, nil
}

// RegisterKernel registers a Go compute function under a kernel name.
// Registering the same name twice is a programmer error.
func (c *Catalog) RegisterKernel(name string, fn KernelFunc) {
	if _, exists := c.kernels[name]; exists {
		panic(fmt.Sprintf("kernel with name '%s' already registered", name))
	}
	c.kernels[name] = fn
}

// LoadManifest parses manifest source and adds every function it defines.
// The filename is used only for diagnostics.
func (c *Catalog) LoadManifest(ctx context.Context, filename string, src []byte) error {
	logger := ctxlog.FromContext(ctx)

	defs, err := manifest.Parse(ctx, filename, src)
	if err != nil {
		return err
	}

	for _, def := range defs {
		fn, err := buildFunction(def)
		if err != nil {
			return fmt.Errorf("manifest %s: function '%s': %w", filename, def.Name, err)
		}
		if _, exists := c.byName[fn.info.Name]; exists {
			return fmt.Errorf("manifest %s: function '%s' already registered", filename, def.Name)
		}
		c.funcs = append(c.funcs, fn)
		c.byName[fn.info.Name] = Handle(len(c.funcs))
	}

	logger.Debug("Manifest registered.", "file", filename, "functions", len(defs))
	return nil
}

// Validate performs a strict parity check between manifests and kernels:
// every manifest must name a registered kernel and every registered kernel
// must be named by a manifest. On success the kernels are bound into the
// function table.
func (c *Catalog) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	used := make(map[string]struct{})
	for _, fn := range c.funcs {
		kernel, ok := c.kernels[fn.kernelName]
		if !ok {
			errs = append(errs, fmt.Sprintf("function '%s': manifest names kernel '%s' which is not registered", fn.info.Name, fn.kernelName))
			continue
		}
		fn.kernel = kernel
		used[fn.kernelName] = struct{}{}
	}
	for name := range c.kernels {
		if _, ok := used[name]; !ok {
			errs = append(errs, fmt.Sprintf("kernel '%s' is registered but no manifest names it", name))
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("catalog validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Catalog validation passed.", "functions", len(c.funcs), "kernels", len(c.kernels))
	return nil
}

// LookupFunc resolves a function name to its handle.
func (c *Catalog) LookupFunc(name string) (Handle, Status) {
	h, ok := c.byName[name]
	if !ok {
		return 0, FuncNotFound
	}
	return h, Success
}

// lookup maps a handle back to its entry.
func (c *Catalog) lookup(h Handle) (*function, Status) {
	if h < 1 || int(h) > len(c.funcs) {
		return nil, InvalidHandle
	}
	return c.funcs[h-1], Success
}

// FuncInfo fetches the metadata snapshot for a handle.
func (c *Catalog) FuncInfo(h Handle) (FuncInfo, Status) {
	fn, st := c.lookup(h)
	if st != Success {
		return FuncInfo{}, st
	}
	return fn.info, Success
}

// InputInfo fetches the description of input parameter i.
func (c *Catalog) InputInfo(h Handle, i int) (InputInfo, Status) {
	fn, st := c.lookup(h)
	if st != Success {
		return InputInfo{}, st
	}
	if i < 0 || i >= len(fn.inputs) {
		return InputInfo{}, BadParam
	}
	return fn.inputs[i], Success
}

// OptInputInfo fetches the description of optional input parameter i.
func (c *Catalog) OptInputInfo(h Handle, i int) (OptInputInfo, Status) {
	fn, st := c.lookup(h)
	if st != Success {
		return OptInputInfo{}, st
	}
	if i < 0 || i >= len(fn.optInputs) {
		return OptInputInfo{}, BadParam
	}
	return fn.optInputs[i], Success
}

// OutputInfo fetches the description of output parameter i.
func (c *Catalog) OutputInfo(h Handle, i int) (OutputInfo, Status) {
	fn, st := c.lookup(h)
	if st != Success {
		return OutputInfo{}, st
	}
	if i < 0 || i >= len(fn.outputs) {
		return OutputInfo{}, BadParam
	}
	return fn.outputs[i], Success
}

// GroupTable lists the distinct group names in lexical order.
func (c *Catalog) GroupTable() []string {
	seen := make(map[string]struct{})
	var groups []string
	for _, fn := range c.funcs {
		if _, ok := seen[fn.info.Group]; ok {
			continue
		}
		seen[fn.info.Group] = struct{}{}
		groups = append(groups, fn.info.Group)
	}
	sort.Strings(groups)
	return groups
}

// FuncTable lists function names in lexical order. With an empty group it
// lists the whole catalog; with a named group it lists that group only and
// reports GroupNotFound for unknown groups.
func (c *Catalog) FuncTable(group string) ([]string, Status) {
	var names []string
	found := group == ""
	for _, fn := range c.funcs {
		if group != "" && fn.info.Group != group {
			continue
		}
		found = true
		names = append(names, fn.info.Name)
	}
	if !found {
		return nil, GroupNotFound
	}
	sort.Strings(names)
	return names, Success
}

// ActiveParamHolders reports the number of allocated-but-unreleased
// parameter holders. Diagnostic surface used to verify release discipline.
func (c *Catalog) ActiveParamHolders() int {
	return int(c.liveHolders.Load())
}

// buildFunction converts one parsed manifest definition into a catalog
// entry, resolving kind strings, flags and default/range scalars.
func buildFunction(def *manifest.Function) (*function, error) {
	if def.Kernel == "" {
		return nil, fmt.Errorf("missing kernel name")
	}

	fn := &function{
		info: FuncInfo{
			Name:       def.Name,
			Group:      def.Group,
			Hint:       def.Hint,
			NbInput:    len(def.Inputs),
			NbOptInput: len(def.OptInputs),
			NbOutput:   len(def.Outputs),
		},
		kernelName: def.Kernel,
	}

	for _, in := range def.Inputs {
		info, err := buildInput(in)
		if err != nil {
			return nil, fmt.Errorf("input '%s': %w", in.Name, err)
		}
		fn.inputs = append(fn.inputs, info)
	}
	for _, opt := range def.OptInputs {
		info, err := buildOptInput(opt)
		if err != nil {
			return nil, fmt.Errorf("optional input '%s': %w", opt.Name, err)
		}
		fn.optInputs = append(fn.optInputs, info)
	}
	for _, out := range def.Outputs {
		info, err := buildOutput(out)
		if err != nil {
			return nil, fmt.Errorf("output '%s': %w", out.Name, err)
		}
		fn.outputs = append(fn.outputs, info)
	}

	return fn, nil
}

func buildInput(in manifest.Input) (InputInfo, error) {
	info := InputInfo{Name: in.Name}

	switch in.Kind {
	case manifest.KindPrice:
		info.Type = InputPrice
	case manifest.KindReal:
		info.Type = InputReal
	case manifest.KindInteger:
		info.Type = InputInteger
	default:
		return InputInfo{}, fmt.Errorf("unknown input kind '%s'", in.Kind)
	}

	for _, flag := range in.Flags {
		bit, ok := inputFlagBits[flag]
		if !ok {
			return InputInfo{}, fmt.Errorf("unknown input flag '%s'", flag)
		}
		info.Flags |= bit
	}
	return info, nil
}

var inputFlagBits = map[string]InputFlags{
	"open":          InOpen,
	"high":          InHigh,
	"low":           InLow,
	"close":         InClose,
	"volume":        InVolume,
	"open_interest": InOpenInterest,
}

func buildOptInput(opt manifest.OptInput) (OptInputInfo, error) {
	info := OptInputInfo{
		Name:        opt.Name,
		DisplayName: opt.DisplayName,
		Hint:        opt.Hint,
		Precision:   opt.Precision,
	}

	isReal := false
	switch opt.Kind {
	case manifest.KindRealRange:
		info.Type = OptRealRange
		isReal = true
	case manifest.KindRealList:
		info.Type = OptRealList
		isReal = true
	case manifest.KindIntegerRange:
		info.Type = OptIntegerRange
	case manifest.KindIntegerList:
		info.Type = OptIntegerList
	default:
		return OptInputInfo{}, fmt.Errorf("unknown optional input kind '%s'", opt.Kind)
	}

	switch opt.Flag {
	case OptFlagNone, OptFlagPercent, OptFlagDegree, OptFlagCurrency, OptFlagAdvanced:
		info.Flag = opt.Flag
	default:
		return OptInputInfo{}, fmt.Errorf("unknown optional input flag '%s'", opt.Flag)
	}

	var err error
	if info.Default, err = buildScalar(opt.Default, isReal); err != nil {
		return OptInputInfo{}, fmt.Errorf("default: %w", err)
	}
	if !info.Default.Set {
		return OptInputInfo{}, fmt.Errorf("default value is required")
	}
	if info.Min, err = buildScalar(opt.Minimum, isReal); err != nil {
		return OptInputInfo{}, fmt.Errorf("minimum: %w", err)
	}
	if info.Max, err = buildScalar(opt.Maximum, isReal); err != nil {
		return OptInputInfo{}, fmt.Errorf("maximum: %w", err)
	}

	for _, choice := range opt.Choices {
		entry := Choice{Label: choice.Label}
		if isReal {
			if entry.Real, err = manifest.CoerceFloat(choice.Value); err != nil {
				return OptInputInfo{}, fmt.Errorf("choice '%s': %w", choice.Label, err)
			}
		} else {
			if entry.Integer, err = manifest.CoerceInt(choice.Value); err != nil {
				return OptInputInfo{}, fmt.Errorf("choice '%s': %w", choice.Label, err)
			}
		}
		info.Choices = append(info.Choices, entry)
	}

	return info, nil
}

// buildScalar converts a manifest value into the width the parameter kind
// calls for. An absent manifest value yields an unset scalar.
func buildScalar(v cty.Value, isReal bool) (Scalar, error) {
	if v == cty.NilVal {
		return Scalar{}, nil
	}
	var s Scalar
	var err error
	if isReal {
		if s.Real, err = manifest.CoerceFloat(v); err != nil {
			return Scalar{}, err
		}
	} else {
		if s.Integer, err = manifest.CoerceInt(v); err != nil {
			return Scalar{}, err
		}
	}
	s.Set = true
	return s, nil
}

func buildOutput(out manifest.Output) (OutputInfo, error) {
	info := OutputInfo{Name: out.Name}

	switch out.Kind {
	case manifest.KindReal:
		info.Type = OutputReal
	case manifest.KindInteger:
		info.Type = OutputInteger
	default:
		return OutputInfo{}, fmt.Errorf("unknown output kind '%s'", out.Kind)
	}

	for _, flag := range out.Flags {
		bit, ok := outputFlagBits[flag]
		if !ok {
			return OutputInfo{}, fmt.Errorf("unknown output flag '%s'", flag)
		}
		info.Flags |= bit
	}
	return info, nil
}

var outputFlagBits = map[string]OutputFlags{
	"line":        OutLine,
	"dot_line":    OutDotLine,
	"dash_line":   OutDashLine,
	"dot":         OutDot,
	"histogram":   OutHistogram,
	"upper_limit": OutUpperLimit,
	"lower_limit": OutLowerLimit,
}
