// Package abstract is the generic introspection and dispatch layer over the
// catalog of technical-analysis functions.
//
// Nothing in this package knows about any specific function. A caller
// resolves a Function descriptor by name, inspects its declared inputs,
// optional inputs and outputs, and invokes it over an index range; the
// descriptor's metadata drives validation, binding and buffer allocation for
// the whole catalog through one code path.
//
// The catalog itself has an explicit lifecycle. Open builds an isolated
// Library from a set of modules; Initialize and Shutdown manage a
// reference-counted process-default Library over the shipped function
// groups. Nothing starts as a side effect of importing the package.
package abstract

import (
	"context"
	"sync"

	"github.com/dpinte/talib-wrappers/internal/catalog"
	"github.com/dpinte/talib-wrappers/modules/mathops"
	"github.com/dpinte/talib-wrappers/modules/momentum"
	"github.com/dpinte/talib-wrappers/modules/overlap"
	"github.com/dpinte/talib-wrappers/modules/statistic"
)

// CoreModules is the definitive list of function groups compiled into this
// library.
func CoreModules() []catalog.Module {
	return []catalog.Module{
		&mathops.Module{},
		&momentum.Module{},
		&overlap.Module{},
		&statistic.Module{},
	}
}

// Library is one loaded function catalog. Libraries are independent of each
// other; tests routinely open a private one over stub modules.
type Library struct {
	cat *catalog.Catalog
}

// Open loads the given modules into a fresh catalog and validates it. With
// no modules it loads CoreModules.
func Open(ctx context.Context, mods ...catalog.Module) (*Library, error) {
	if len(mods) == 0 {
		mods = CoreModules()
	}
	cat, err := catalog.Load(ctx, mods...)
	if err != nil {
		return nil, err
	}
	return &Library{cat: cat}, nil
}

// Close releases the library. Descriptors resolved from it stop working;
// closing twice is a no-op.
func (l *Library) Close() error {
	l.cat = nil
	return nil
}

// Resolve looks a function up by name and returns its descriptor. An
// unknown name, or a handle whose metadata cannot be fetched, is fatal: no
// partially constructed descriptor is ever returned.
func (l *Library) Resolve(name string) (*Function, error) {
	if l.cat == nil {
		return nil, &ResolutionError{Name: name, Err: checkStatus(catalog.LibNotInitialized, "lookup function")}
	}
	h, st := l.cat.LookupFunc(name)
	if st != catalog.Success {
		return nil, &ResolutionError{Name: name, Err: checkStatus(st, "lookup function")}
	}
	info, st := l.cat.FuncInfo(h)
	if st != catalog.Success {
		return nil, &ResolutionError{Name: name, Err: checkStatus(st, "fetch function info")}
	}
	return &Function{lib: l, handle: h, info: info}, nil
}

// Groups lists the catalog's distinct group names in lexical order.
func (l *Library) Groups() ([]string, error) {
	if l.cat == nil {
		return nil, checkStatus(catalog.LibNotInitialized, "list groups")
	}
	return l.cat.GroupTable(), nil
}

// Functions lists function names in lexical order: the named group's when
// group is non-empty, the whole catalog's otherwise.
func (l *Library) Functions(group string) ([]string, error) {
	if l.cat == nil {
		return nil, checkStatus(catalog.LibNotInitialized, "list functions")
	}
	names, st := l.cat.FuncTable(group)
	if err := checkStatus(st, "list functions of group '"+group+"'"); err != nil {
		return nil, err
	}
	return names, nil
}

// defaultLib guards the reference-counted process-default library.
var defaultLib struct {
	mu   sync.Mutex
	refs int
	lib  *Library
}

// Initialize opens the process-default library over CoreModules, or bumps
// its reference count when it is already open. Every Initialize must be
// paired with one Shutdown.
func Initialize(ctx context.Context) error {
	defaultLib.mu.Lock()
	defer defaultLib.mu.Unlock()

	if defaultLib.lib == nil {
		lib, err := Open(ctx)
		if err != nil {
			return err
		}
		defaultLib.lib = lib
	}
	defaultLib.refs++
	return nil
}

// Shutdown drops one reference to the process-default library and closes it
// when the count reaches zero. Calling Shutdown on an uninitialized library
// is a no-op.
func Shutdown() error {
	defaultLib.mu.Lock()
	defer defaultLib.mu.Unlock()

	if defaultLib.lib == nil {
		return nil
	}
	defaultLib.refs--
	if defaultLib.refs <= 0 {
		err := defaultLib.lib.Close()
		defaultLib.lib = nil
		defaultLib.refs = 0
		return err
	}
	return nil
}

// Default returns the process-default library, which must have been opened
// with Initialize.
func Default() (*Library, error) {
	defaultLib.mu.Lock()
	defer defaultLib.mu.Unlock()

	if defaultLib.lib == nil {
		return nil, checkStatus(catalog.LibNotInitialized, "use default library")
	}
	return defaultLib.lib, nil
}

// Resolve resolves a function by name against the process-default library.
func Resolve(name string) (*Function, error) {
	lib, err := Default()
	if err != nil {
		return nil, &ResolutionError{Name: name, Err: err}
	}
	return lib.Resolve(name)
}

// FunctionGroups lists the default library's group names.
func FunctionGroups() ([]string, error) {
	lib, err := Default()
	if err != nil {
		return nil, err
	}
	return lib.Groups()
}

// FunctionsInGroup lists the default library's function names within a
// group, or all functions when group is empty.
func FunctionsInGroup(group string) ([]string, error) {
	lib, err := Default()
	if err != nil {
		return nil, err
	}
	return lib.Functions(group)
}
