package probe

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeRunner is an in-memory Runner keyed by the full command line
// ("lspci -v"). Unknown commands fail as if the tool were missing.
type FakeRunner struct {
	mu      sync.Mutex
	Outputs map[string]string
	Errors  map[string]error
	Calls   []string
}

// NewFakeRunner creates a FakeRunner with the given canned outputs.
func NewFakeRunner(outputs map[string]string) *FakeRunner {
	if outputs == nil {
		outputs = map[string]string{}
	}
	return &FakeRunner{Outputs: outputs, Errors: map[string]error{}}
}

func (f *FakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	key := strings.TrimSpace(name + " " + strings.Join(args, " "))

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, key)

	if err, ok := f.Errors[key]; ok {
		return f.Outputs[key], err
	}
	out, ok := f.Outputs[key]
	if !ok {
		return "", fmt.Errorf("%s: executable file not found in $PATH", name)
	}
	return out, nil
}

// CallCount returns how many times the exact command line was run.
func (f *FakeRunner) CallCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == key {
			n++
		}
	}
	return n
}

// StaticResolver is a ToolResolver over a fixed set of tool names.
type StaticResolver map[string]bool

// NewStaticResolver returns a resolver reporting exactly the given tools.
func NewStaticResolver(tools ...string) StaticResolver {
	r := make(StaticResolver, len(tools))
	for _, t := range tools {
		r[t] = true
	}
	return r
}

func (r StaticResolver) Has(name string) bool { return r[name] }
