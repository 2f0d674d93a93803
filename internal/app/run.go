package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	nameColor    = color.New(color.FgGreen)
)

// runGroups prints the catalog's group names.
func (a *App) runGroups() error {
	groups, err := a.lib.Groups()
	if err != nil {
		return err
	}
	headingColor.Fprintln(a.outW, "Function groups:")
	for _, group := range groups {
		fmt.Fprintf(a.outW, "  %s\n", group)
	}
	return nil
}

// runFunctions prints function names, per group or catalog-wide.
func (a *App) runFunctions() error {
	names, err := a.lib.Functions(a.cfg.Group)
	if err != nil {
		return err
	}
	if a.cfg.Group != "" {
		headingColor.Fprintf(a.outW, "Functions in group '%s':\n", a.cfg.Group)
	} else {
		headingColor.Fprintln(a.outW, "Functions:")
	}
	for _, name := range names {
		nameColor.Fprintf(a.outW, "  %s\n", name)
	}
	return nil
}

// runDescribe prints one function's full parameter description.
func (a *App) runDescribe() error {
	fn, err := a.lib.Resolve(a.cfg.Function)
	if err != nil {
		return err
	}

	headingColor.Fprintf(a.outW, "%s", fn.Name())
	fmt.Fprintf(a.outW, " - %s [%s]\n", fn.Hint(), fn.Group())

	inputs, err := fn.InputDescription()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "Inputs (%d):\n", fn.NbInput())
	for _, in := range inputs {
		fmt.Fprintf(a.outW, "  %s: %s\n", in.Name(), in.Type())
	}

	optInputs, err := fn.OptionalInputDescription()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "Optional inputs (%d):\n", fn.NbOptInput())
	for _, opt := range optInputs {
		fmt.Fprintf(a.outW, "  %s (%s): %s %s, default %v", opt.Name(), opt.DisplayName(), opt.Type(), opt.Summary(), opt.Default())
		if opt.Hint() != "" {
			fmt.Fprintf(a.outW, " - %s", opt.Hint())
		}
		fmt.Fprintln(a.outW)
	}

	outputs, err := fn.OutputDescription()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "Outputs (%d):\n", fn.NbOutput())
	for _, out := range outputs {
		fmt.Fprintf(a.outW, "  %s: %s\n", out.Name(), out.Type())
	}
	return nil
}

// runCall invokes one function over the supplied data and prints the valid
// window of every output.
func (a *App) runCall(ctx context.Context) error {
	data, err := readData(a.cfg.Data)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("no input values supplied")
	}

	end := a.cfg.End
	if end < 0 {
		end = len(data) - 1
	}

	fn, err := a.lib.Resolve(a.cfg.Function)
	if err != nil {
		return err
	}

	// Every declared input gets the same series; the common catalog shapes
	// (one series, or two for the arithmetic functions) both work that way
	// for a single -data flag.
	inputs := make([]any, fn.NbInput())
	for i := range inputs {
		inputs[i] = data
	}

	options := make(map[string]any, len(a.cfg.Options))
	for name, raw := range a.cfg.Options {
		options[name] = parseScalar(raw)
	}

	res, err := fn.Call(ctx, a.cfg.Start, end, inputs, options)
	if err != nil {
		return err
	}

	headingColor.Fprintf(a.outW, "%s", fn.Name())
	fmt.Fprintf(a.outW, ": beg_idx=%d nb_element=%d\n", res.BegIdx, res.NbElement)
	for _, out := range res.Outputs {
		nameColor.Fprintf(a.outW, "  %s:", out.Name)
		if res.NbElement > 0 {
			offset := res.BegIdx - a.cfg.Start
			if out.Real != nil {
				for _, v := range out.Real[offset : offset+res.NbElement] {
					fmt.Fprintf(a.outW, " %g", v)
				}
			} else {
				for _, v := range out.Integer[offset : offset+res.NbElement] {
					fmt.Fprintf(a.outW, " %d", v)
				}
			}
		}
		fmt.Fprintln(a.outW)
	}
	return nil
}

// parseScalar interprets an option value as an int when possible, falling
// back to float64 and finally to the raw string.
func parseScalar(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
