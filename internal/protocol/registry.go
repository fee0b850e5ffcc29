package protocol

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Factory builds a protocol from a source.
type Factory func(Source) (Protocol, error)

// Registry maps protocol names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Names are unique.
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("protocol name is empty")
	}
	if factory == nil {
		return fmt.Errorf("protocol %s: nil factory", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("protocol %s already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Names returns registered protocol names, Debug first then sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i] == DebugName) != (out[j] == DebugName) {
			return out[i] == DebugName
		}
		return out[i] < out[j]
	})
	return out
}

// Has reports whether name is registered, with or without the task prefix.
func (r *Registry) Has(name string) bool {
	name = strings.TrimPrefix(strings.TrimSpace(name), Task+".")
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Open builds the named protocol. The name may carry the task prefix,
// e.g. SpeakerRecognition.SRE10_c05_f.
func (r *Registry) Open(name string, src Source) (Protocol, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, Task+".")
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		if strings.HasPrefix(name, "SRE10_") {
			if _, _, err := ParseSRE10Name(name); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnknownProtocol, err)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, name)
	}
	return factory(src)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the registry holding Debug and every SRE10 condition.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		mustRegister(r, DebugName, func(src Source) (Protocol, error) {
			return asProtocol(NewDebug(src))
		})
		for condition := MinCondition; condition <= MaxCondition; condition++ {
			for _, gender := range Genders {
				mustRegister(r, SRE10Name(condition, gender), func(src Source) (Protocol, error) {
					return asProtocol(NewSRE10(src, condition, gender))
				})
			}
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// asProtocol keeps a failed constructor from yielding a non-nil interface.
func asProtocol(p *SRE10, err error) (Protocol, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

func mustRegister(r *Registry, name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// ParseSRE10Name splits a name such as SRE10_c05_f into condition and gender.
func ParseSRE10Name(name string) (int, string, error) {
	rest, ok := strings.CutPrefix(strings.TrimPrefix(name, Task+"."), "SRE10_c")
	if !ok {
		return 0, "", fmt.Errorf("%q is not an SRE10 protocol name", name)
	}
	digits, gender, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, "", fmt.Errorf("%q is not an SRE10 protocol name", name)
	}
	condition, err := strconv.Atoi(digits)
	if err != nil || len(digits) != 2 {
		return 0, "", fmt.Errorf("%q: invalid condition %q", name, digits)
	}
	if condition < MinCondition || condition > MaxCondition {
		return 0, "", fmt.Errorf("%q: condition out of range", name)
	}
	if gender != "f" && gender != "m" {
		return 0, "", fmt.Errorf("%q: invalid gender %q", name, gender)
	}
	return condition, gender, nil
}
