package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"scrutiny/internal/records"
)

// StageFunc is one executable pipeline stage. It receives the shared
// record store plus its declared parameters, mutates records in place,
// and must not change the store's membership or order.
type StageFunc func(store *records.Store, params Params) error

// Registry maps module paths (all identifier segments but the last) to
// the stage functions they export. It replaces dynamic module loading:
// a name either resolves to a registered function or the run aborts.
type Registry map[string]map[string]StageFunc

// Register adds fn under modulePath and funcName, growing the module
// entry as needed. Later registrations overwrite earlier ones.
func (r Registry) Register(modulePath, funcName string, fn StageFunc) {
	funcs, ok := r[modulePath]
	if !ok {
		funcs = make(map[string]StageFunc)
		r[modulePath] = funcs
	}
	funcs[funcName] = fn
}

// Resolve validates identifier, splits it into module path and function
// name, and returns the registered stage. A missing module path or
// function name fails with ErrUnknownStage; no fallback, no retry.
func (r Registry) Resolve(identifier string) (StageFunc, error) {
	if err := Validate(identifier); err != nil {
		return nil, err
	}
	cut := strings.LastIndex(identifier, ".")
	modulePath, funcName := identifier[:cut], identifier[cut+1:]

	funcs, ok := r[modulePath]
	if !ok {
		return nil, fmt.Errorf("%w: no module %q", ErrUnknownStage, modulePath)
	}
	fn, ok := funcs[funcName]
	if !ok {
		return nil, fmt.Errorf("%w: module %q has no function %q", ErrUnknownStage, modulePath, funcName)
	}
	return fn, nil
}

// Names returns every registered stage identifier, sorted.
func (r Registry) Names() []string {
	var names []string
	for modulePath, funcs := range r {
		for funcName := range funcs {
			names = append(names, modulePath+"."+funcName)
		}
	}
	sort.Strings(names)
	return names
}
