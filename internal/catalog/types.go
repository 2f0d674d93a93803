package catalog

// InputType tags the kind of one positional input parameter.
type InputType int

const (
	InputPrice InputType = iota
	InputReal
	InputInteger
)

func (t InputType) String() string {
	switch t {
	case InputPrice:
		return "Price"
	case InputReal:
		return "Real"
	case InputInteger:
		return "Integer"
	}
	return "Unknown"
}

// OptInputType tags the kind of one optional input parameter.
type OptInputType int

const (
	OptRealRange OptInputType = iota
	OptRealList
	OptIntegerRange
	OptIntegerList
)

func (t OptInputType) String() string {
	switch t {
	case OptRealRange:
		return "RealRange"
	case OptRealList:
		return "RealList"
	case OptIntegerRange:
		return "IntegerRange"
	case OptIntegerList:
		return "IntegerList"
	}
	return "Unknown"
}

// OutputType tags the kind of one output parameter.
type OutputType int

const (
	OutputReal OutputType = iota
	OutputInteger
)

func (t OutputType) String() string {
	switch t {
	case OutputReal:
		return "Real"
	case OutputInteger:
		return "Integer"
	}
	return "Unknown"
}

// InputFlags is a bitmask of price-component hints on a price-typed input.
type InputFlags uint32

const (
	InOpen InputFlags = 1 << iota
	InHigh
	InLow
	InClose
	InVolume
	InOpenInterest
)

// OutputFlags is a bitmask of rendering hints on an output.
type OutputFlags uint32

const (
	OutLine OutputFlags = 1 << iota
	OutDotLine
	OutDashLine
	OutDot
	OutHistogram
	OutUpperLimit
	OutLowerLimit
)

// Optional-input display flags, carried as their canonical strings.
const (
	OptFlagNone     = ""
	OptFlagPercent  = "percent"
	OptFlagDegree   = "degree"
	OptFlagCurrency = "currency"
	OptFlagAdvanced = "advanced"
)

// FuncInfo is the immutable metadata snapshot of one catalog function.
type FuncInfo struct {
	Name       string
	Group      string
	Hint       string
	NbInput    int
	NbOptInput int
	NbOutput   int
}

// InputInfo describes one positional input parameter.
type InputInfo struct {
	Name  string
	Type  InputType
	Flags InputFlags
}

// Scalar carries one optional-parameter value in both native widths; only
// the field matching the parameter's declared type is meaningful.
type Scalar struct {
	Real    float64
	Integer int32
	Set     bool
}

// Choice is one entry of an enumerated optional parameter.
type Choice struct {
	Label   string
	Real    float64
	Integer int32
}

// OptInputInfo describes one optional input parameter.
type OptInputInfo struct {
	Name        string
	DisplayName string
	Hint        string
	Type        OptInputType
	Default     Scalar
	Min         Scalar
	Max         Scalar
	Precision   int
	Choices     []Choice
	Flag        string
}

// OutputInfo describes one output parameter.
type OutputInfo struct {
	Name  string
	Type  OutputType
	Flags OutputFlags
}
