package abstract

import (
	"fmt"
	"sync"

	"github.com/dpinte/talib-wrappers/internal/catalog"
)

// Function is a resolved, metadata-bearing descriptor of one catalog
// function. It is the entry point for introspecting the function's parameter
// shapes and for invoking it.
//
// The name, group, hint and parameter counts are copied once at resolution
// time and are fixed for the descriptor's lifetime. The three parameter
// description lists are fetched lazily on first use and cached; a fetch
// failure at any index fails the whole list rather than shortening it.
type Function struct {
	lib    *Library
	handle catalog.Handle
	info   catalog.FuncInfo

	mu        sync.Mutex
	inputs    []InputParameterInfo
	optInputs []OptionalInputParameterInfo
	outputs   []OutputParameterInfo
}

// Name is the catalog name the descriptor was resolved under.
func (f *Function) Name() string { return f.info.Name }

// Group is the catalog group the function belongs to.
func (f *Function) Group() string { return f.info.Group }

// Hint is the function's short description.
func (f *Function) Hint() string { return f.info.Hint }

// NbInput is the declared number of positional inputs.
func (f *Function) NbInput() int { return f.info.NbInput }

// NbOptInput is the declared number of optional inputs.
func (f *Function) NbOptInput() int { return f.info.NbOptInput }

// NbOutput is the declared number of outputs.
func (f *Function) NbOutput() int { return f.info.NbOutput }

// InputDescription returns the ordered descriptions of the function's
// positional inputs.
func (f *Function) InputDescription() ([]InputParameterInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inputs == nil {
		list := make([]InputParameterInfo, 0, f.info.NbInput)
		for i := 0; i < f.info.NbInput; i++ {
			info, st := f.lib.cat.InputInfo(f.handle, i)
			if err := checkStatus(st, fmt.Sprintf("fetch input parameter %d of %s", i, f.info.Name)); err != nil {
				return nil, err
			}
			list = append(list, InputParameterInfo{function: f.info.Name, index: i, info: info})
		}
		f.inputs = list
	}
	return f.inputs, nil
}

// OptionalInputDescription returns the ordered descriptions of the
// function's optional inputs.
func (f *Function) OptionalInputDescription() ([]OptionalInputParameterInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.optInputs == nil {
		list := make([]OptionalInputParameterInfo, 0, f.info.NbOptInput)
		for i := 0; i < f.info.NbOptInput; i++ {
			info, st := f.lib.cat.OptInputInfo(f.handle, i)
			if err := checkStatus(st, fmt.Sprintf("fetch optional input parameter %d of %s", i, f.info.Name)); err != nil {
				return nil, err
			}
			list = append(list, OptionalInputParameterInfo{function: f.info.Name, index: i, info: info})
		}
		f.optInputs = list
	}
	return f.optInputs, nil
}

// OutputDescription returns the ordered descriptions of the function's
// outputs.
func (f *Function) OutputDescription() ([]OutputParameterInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.outputs == nil {
		list := make([]OutputParameterInfo, 0, f.info.NbOutput)
		for i := 0; i < f.info.NbOutput; i++ {
			info, st := f.lib.cat.OutputInfo(f.handle, i)
			if err := checkStatus(st, fmt.Sprintf("fetch output parameter %d of %s", i, f.info.Name)); err != nil {
				return nil, err
			}
			list = append(list, OutputParameterInfo{function: f.info.Name, index: i, info: info})
		}
		f.outputs = list
	}
	return f.outputs, nil
}
