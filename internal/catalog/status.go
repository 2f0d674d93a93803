package catalog

// Status is the return code every catalog call reports, mirroring the flat
// ret-code convention of the native TA libraries this layer fronts. Callers
// are expected to funnel every non-Success code through a single translation
// point rather than inspecting codes ad hoc.
type Status int

const (
	Success Status = iota
	LibNotInitialized
	BadParam
	AllocErr
	GroupNotFound
	FuncNotFound
	InvalidHandle
	InvalidParamHolder
	InvalidParamFunction
	InputNotAllInitialized
	OutputNotAllInitialized
	OutOfRangeStartIndex
	OutOfRangeEndIndex
	NotSupported
	InternalError
	UnknownErr
)

// retCodeInfo pairs the short enum spelling of a status with a description.
type retCodeInfo struct {
	enum string
	info string
}

var retCodeTable = map[Status]retCodeInfo{
	Success:                 {"Success", "No error"},
	LibNotInitialized:       {"LibNotInitialized", "The function library is not initialized"},
	BadParam:                {"BadParam", "A parameter is out of range or of the wrong type"},
	AllocErr:                {"AllocErr", "A resource allocation failed"},
	GroupNotFound:           {"GroupNotFound", "The requested group does not exist"},
	FuncNotFound:            {"FuncNotFound", "The requested function does not exist"},
	InvalidHandle:           {"InvalidHandle", "The function handle is not valid"},
	InvalidParamHolder:      {"InvalidParamHolder", "The parameter holder is not valid or was already released"},
	InvalidParamFunction:    {"InvalidParamFunction", "The parameter index does not match the function's declaration"},
	InputNotAllInitialized:  {"InputNotAllInitialized", "Not every input parameter was bound before the call"},
	OutputNotAllInitialized: {"OutputNotAllInitialized", "Not every output parameter was bound before the call"},
	OutOfRangeStartIndex:    {"OutOfRangeStartIndex", "The start index is out of range"},
	OutOfRangeEndIndex:      {"OutOfRangeEndIndex", "The end index is out of range"},
	NotSupported:            {"NotSupported", "The operation is not supported by this build of the library"},
	InternalError:           {"InternalError", "An unexpected internal error occurred"},
}

// RetCodeInfo returns the short enum string and the human-readable
// description for a status code. Codes outside the table report UnknownErr.
func RetCodeInfo(s Status) (enum, info string) {
	if rc, ok := retCodeTable[s]; ok {
		return rc.enum, rc.info
	}
	return "UnknownErr", "Unknown error"
}

// String implements fmt.Stringer with the enum spelling.
func (s Status) String() string {
	enum, _ := RetCodeInfo(s)
	return enum
}
