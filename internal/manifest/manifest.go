// Package manifest defines the HCL representation of a catalog function's
// metadata and the logic for parsing it.
//
// A function manifest is the "contract" half of a catalog entry: it declares
// the function's group and hint, its positional inputs, its optional inputs
// (with defaults, ranges or enumerated choices) and its outputs. The Go
// kernel registered under the manifest's `kernel` name is the other half.
// Keeping the contract in data lets the invocation engine validate and bind
// arguments for any function without function-specific code, and lets the
// catalog check at load time that manifests and compiled kernels agree.
package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/dpinte/talib-wrappers/internal/ctxlog"
)

// Parameter kind strings accepted in manifests. The sets are closed: they
// mirror the native ABI's parameter type tags and do not grow per function.
const (
	KindPrice   = "price"
	KindReal    = "real"
	KindInteger = "integer"

	KindRealRange    = "real_range"
	KindRealList     = "real_list"
	KindIntegerRange = "integer_range"
	KindIntegerList  = "integer_list"
)

// Function is the parsed, format-agnostic definition of one catalog function.
type Function struct {
	// Name is the catalog name, taken from the HCL block label ("SMA").
	Name string

	// Group is the catalog group the function belongs to ("Overlap Studies").
	Group string

	// Hint is a short human-readable description ("Simple Moving Average").
	Hint string

	// Kernel names the registered Go compute function implementing the math.
	Kernel string

	Inputs    []Input
	OptInputs []OptInput
	Outputs   []Output
}

// Input describes one required positional input series.
type Input struct {
	Name string
	Kind string // KindPrice, KindReal or KindInteger

	// Flags hold price-component hints ("open", "high", "low", "close",
	// "volume", "open_interest") for price-typed inputs.
	Flags []string
}

// OptInput describes one optional, keyword-style parameter.
type OptInput struct {
	Name        string
	DisplayName string
	Hint        string
	Kind        string // one of the *Range / *List kinds

	// Default is required; it is applied whenever a caller does not supply
	// the parameter.
	Default cty.Value

	// Minimum and Maximum bound range-kinded parameters. cty.NilVal when the
	// manifest omits them.
	Minimum cty.Value
	Maximum cty.Value

	// Precision is the suggested display precision for real ranges.
	Precision int

	// Choices is the ordered enumeration for list-kinded parameters.
	Choices []Choice

	// Flag is a display hint: "percent", "degree", "currency", "advanced" or
	// empty.
	Flag string
}

// Choice is one (value, label) entry of an enumerated optional parameter.
type Choice struct {
	Label string
	Value cty.Value
}

// Output describes one output buffer the function produces.
type Output struct {
	Name string
	Kind string // KindReal or KindInteger

	// Flags hold rendering hints ("line", "dot_line", "dash_line", "dot",
	// "histogram", "upper_limit", "lower_limit").
	Flags []string
}

// Parse decodes manifest source into function definitions. The filename is
// used only for diagnostics.
func Parse(ctx context.Context, filename string, src []byte) ([]*Function, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing function manifest.", "file", filename)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}

	functions, diags := parseFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid manifest %s: %w", filename, diags)
	}

	logger.Debug("Manifest parsed.", "file", filename, "functions", len(functions))
	return functions, nil
}

// rootSchema captures the top level of a manifest: one or more 'function'
// blocks.
type rootSchema struct {
	Functions []*hclFunction `hcl:"function,block"`
}

type hclFunction struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

var functionBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "group", Required: true},
		{Name: "hint"},
		{Name: "kernel", Required: true},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "opt_input", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
	},
}

func parseFile(file *hcl.File) ([]*Function, hcl.Diagnostics) {
	var allDiags hcl.Diagnostics

	root := &rootSchema{}
	diags := gohcl.DecodeBody(file.Body, nil, root)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	functions := make([]*Function, 0, len(root.Functions))
	seen := make(map[string]struct{})

	for _, raw := range root.Functions {
		if _, dup := seen[raw.Name]; dup {
			allDiags = append(allDiags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate function definition",
				Detail:   fmt.Sprintf("A function named '%s' has already been defined in this manifest.", raw.Name),
			})
			continue
		}
		seen[raw.Name] = struct{}{}

		fn, diags := parseFunction(raw)
		allDiags = append(allDiags, diags...)
		if fn != nil {
			functions = append(functions, fn)
		}
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}
	return functions, allDiags
}

func parseFunction(raw *hclFunction) (*Function, hcl.Diagnostics) {
	content, diags := raw.Body.Content(functionBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	fn := &Function{Name: raw.Name}

	if attr, ok := content.Attributes["group"]; ok {
		diags = append(diags, decodeString(attr, &fn.Group)...)
	}
	if attr, ok := content.Attributes["hint"]; ok {
		diags = append(diags, decodeString(attr, &fn.Hint)...)
	}
	if attr, ok := content.Attributes["kernel"]; ok {
		diags = append(diags, decodeString(attr, &fn.Kernel)...)
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "input":
			in, inDiags := parseInput(block)
			diags = append(diags, inDiags...)
			if in != nil {
				fn.Inputs = append(fn.Inputs, *in)
			}
		case "opt_input":
			opt, optDiags := parseOptInput(block)
			diags = append(diags, optDiags...)
			if opt != nil {
				fn.OptInputs = append(fn.OptInputs, *opt)
			}
		case "output":
			out, outDiags := parseOutput(block)
			diags = append(diags, outDiags...)
			if out != nil {
				fn.Outputs = append(fn.Outputs, *out)
			}
		}
	}

	if len(fn.Outputs) == 0 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Function has no outputs",
			Detail:   fmt.Sprintf("Function '%s' must declare at least one 'output' block.", raw.Name),
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return fn, diags
}

var inputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type", Required: true},
		{Name: "flags"},
	},
}

func parseInput(block *hcl.Block) (*Input, hcl.Diagnostics) {
	content, diags := block.Body.Content(inputBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	in := &Input{Name: block.Labels[0]}
	diags = append(diags, decodeString(content.Attributes["type"], &in.Kind)...)
	if attr, ok := content.Attributes["flags"]; ok {
		diags = append(diags, decodeStringList(attr, &in.Flags)...)
	}

	switch in.Kind {
	case KindPrice, KindReal, KindInteger:
	case "":
	default:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid input type",
			Detail:   fmt.Sprintf("Input '%s' has type '%s'; expected one of 'price', 'real', 'integer'.", in.Name, in.Kind),
			Subject:  &block.DefRange,
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return in, diags
}

var optInputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type", Required: true},
		{Name: "display_name"},
		{Name: "default", Required: true},
		{Name: "minimum"},
		{Name: "maximum"},
		{Name: "precision"},
		{Name: "hint"},
		{Name: "flags"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "choice", LabelNames: []string{"label"}},
	},
}

func parseOptInput(block *hcl.Block) (*OptInput, hcl.Diagnostics) {
	content, diags := block.Body.Content(optInputBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	opt := &OptInput{Name: block.Labels[0]}
	diags = append(diags, decodeString(content.Attributes["type"], &opt.Kind)...)
	if attr, ok := content.Attributes["display_name"]; ok {
		diags = append(diags, decodeString(attr, &opt.DisplayName)...)
	}
	if attr, ok := content.Attributes["hint"]; ok {
		diags = append(diags, decodeString(attr, &opt.Hint)...)
	}
	if attr, ok := content.Attributes["flags"]; ok {
		diags = append(diags, decodeString(attr, &opt.Flag)...)
	}
	diags = append(diags, decodeValue(content.Attributes["default"], &opt.Default)...)
	if attr, ok := content.Attributes["minimum"]; ok {
		diags = append(diags, decodeValue(attr, &opt.Minimum)...)
	}
	if attr, ok := content.Attributes["maximum"]; ok {
		diags = append(diags, decodeValue(attr, &opt.Maximum)...)
	}
	if attr, ok := content.Attributes["precision"]; ok {
		diags = append(diags, decodeInt(attr, &opt.Precision)...)
	}

	for _, choiceBlock := range content.Blocks.OfType("choice") {
		choice, choiceDiags := parseChoice(choiceBlock)
		diags = append(diags, choiceDiags...)
		if choice != nil {
			opt.Choices = append(opt.Choices, *choice)
		}
	}

	switch opt.Kind {
	case KindRealRange, KindIntegerRange:
		if len(opt.Choices) > 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Choices on a range parameter",
				Detail:   fmt.Sprintf("Optional input '%s' is range-typed and cannot carry 'choice' blocks.", opt.Name),
				Subject:  &block.DefRange,
			})
		}
	case KindRealList, KindIntegerList:
		if len(opt.Choices) == 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "List parameter without choices",
				Detail:   fmt.Sprintf("Optional input '%s' is list-typed and must declare at least one 'choice' block.", opt.Name),
				Subject:  &block.DefRange,
			})
		}
	case "":
	default:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid optional input type",
			Detail:   fmt.Sprintf("Optional input '%s' has type '%s'; expected one of 'real_range', 'real_list', 'integer_range', 'integer_list'.", opt.Name, opt.Kind),
			Subject:  &block.DefRange,
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return opt, diags
}

var choiceBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "value", Required: true},
	},
}

func parseChoice(block *hcl.Block) (*Choice, hcl.Diagnostics) {
	content, diags := block.Body.Content(choiceBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	choice := &Choice{Label: block.Labels[0]}
	diags = append(diags, decodeValue(content.Attributes["value"], &choice.Value)...)
	if diags.HasErrors() {
		return nil, diags
	}
	return choice, diags
}

var outputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type", Required: true},
		{Name: "flags"},
	},
}

func parseOutput(block *hcl.Block) (*Output, hcl.Diagnostics) {
	content, diags := block.Body.Content(outputBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	out := &Output{Name: block.Labels[0]}
	diags = append(diags, decodeString(content.Attributes["type"], &out.Kind)...)
	if attr, ok := content.Attributes["flags"]; ok {
		diags = append(diags, decodeStringList(attr, &out.Flags)...)
	}

	switch out.Kind {
	case KindReal, KindInteger:
	case "":
	default:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid output type",
			Detail:   fmt.Sprintf("Output '%s' has type '%s'; expected 'real' or 'integer'.", out.Name, out.Kind),
			Subject:  &block.DefRange,
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return out, diags
}

// decodeString evaluates an attribute expected to hold a literal string.
func decodeString(attr *hcl.Attribute, target *string) hcl.Diagnostics {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	if val.Type() != cty.String {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid attribute value",
			Detail:   fmt.Sprintf("Attribute '%s' must be a string.", attr.Name),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	*target = val.AsString()
	return nil
}

// decodeInt evaluates an attribute expected to hold a literal whole number.
func decodeInt(attr *hcl.Attribute, target *int) hcl.Diagnostics {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	n, err := CoerceInt(val)
	if err != nil {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid attribute value",
			Detail:   fmt.Sprintf("Attribute '%s': %s.", attr.Name, err),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	*target = int(n)
	return nil
}

// decodeValue evaluates an attribute and keeps the raw cty value; numeric
// interpretation is deferred to the catalog, which knows the parameter kind.
func decodeValue(attr *hcl.Attribute, target *cty.Value) hcl.Diagnostics {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	*target = val
	return nil
}

// decodeStringList evaluates an attribute expected to hold a list of strings.
func decodeStringList(attr *hcl.Attribute, target *[]string) hcl.Diagnostics {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	if !val.CanIterateElements() {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid attribute value",
			Detail:   fmt.Sprintf("Attribute '%s' must be a list of strings.", attr.Name),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.Type() != cty.String {
			return hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid attribute value",
				Detail:   fmt.Sprintf("Attribute '%s' must contain only strings.", attr.Name),
				Subject:  attr.Expr.Range().Ptr(),
			}}
		}
		out = append(out, elem.AsString())
	}
	*target = out
	return nil
}
