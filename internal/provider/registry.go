// Package provider holds factory registration and lookup for the pluggable
// speech and reasoning backends.
//
// # Adding a New Provider
//
// Each provider package exposes a Register function that the registration
// package calls explicitly before wiring the session controller:
//
//	provider.RegisterSpeechFactory(provider.SpeechFactory{
//	    Name:        "scripted",
//	    Description: "deterministic fixture playback",
//	    Create:      newScriptedSpeech,
//	})
package provider

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/medscribe/clinical-copilot/internal/domain"
)

// Deps carries the shared dependencies factories may need. Fields the
// factory does not use are ignored.
type Deps struct {
	Logger        *slog.Logger
	PlaybackSpeed float64
}

// SpeechFactory describes how to build a transcript source of one type.
type SpeechFactory struct {
	// Name is the provider identifier used in configuration
	// (e.g., "scripted").
	Name string

	// Description provides a human-readable description of the provider.
	Description string

	// Create instantiates a new speech provider.
	Create func(deps Deps) (domain.SpeechProvider, error)
}

// ReasonerFactory describes how to build a clinical reasoner of one type.
type ReasonerFactory struct {
	Name        string
	Description string
	Create      func(deps Deps) (domain.Reasoner, error)
}

var (
	factoryMu   sync.RWMutex
	speechMap   = make(map[string]SpeechFactory)
	reasonerMap = make(map[string]ReasonerFactory)
)

// RegisterSpeechFactory registers a speech provider factory.
// Panics if the name is empty, Create is nil, or the name is taken.
func RegisterSpeechFactory(f SpeechFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	if f.Name == "" {
		panic("speech factory name cannot be empty")
	}
	if f.Create == nil {
		panic(fmt.Sprintf("speech factory %q must have a Create function", f.Name))
	}
	if _, exists := speechMap[f.Name]; exists {
		panic(fmt.Sprintf("speech factory %q already registered", f.Name))
	}
	speechMap[f.Name] = f
}

// RegisterReasonerFactory registers a reasoner factory.
// Panics if the name is empty, Create is nil, or the name is taken.
func RegisterReasonerFactory(f ReasonerFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	if f.Name == "" {
		panic("reasoner factory name cannot be empty")
	}
	if f.Create == nil {
		panic(fmt.Sprintf("reasoner factory %q must have a Create function", f.Name))
	}
	if _, exists := reasonerMap[f.Name]; exists {
		panic(fmt.Sprintf("reasoner factory %q already registered", f.Name))
	}
	reasonerMap[f.Name] = f
}

// NewSpeech creates a speech provider using the registered factory.
func NewSpeech(name string, deps Deps) (domain.SpeechProvider, error) {
	factoryMu.RLock()
	f, ok := speechMap[name]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown speech provider: %s (registered types: %v)", name, SpeechTypes())
	}
	return f.Create(deps)
}

// NewReasoner creates a reasoner using the registered factory.
func NewReasoner(name string, deps Deps) (domain.Reasoner, error) {
	factoryMu.RLock()
	f, ok := reasonerMap[name]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown reasoner: %s (registered types: %v)", name, ReasonerTypes())
	}
	return f.Create(deps)
}

// SpeechTypes returns all registered speech provider names, sorted.
func SpeechTypes() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()

	names := make([]string, 0, len(speechMap))
	for name := range speechMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReasonerTypes returns all registered reasoner names, sorted.
func ReasonerTypes() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()

	names := make([]string, 0, len(reasonerMap))
	for name := range reasonerMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearFactories removes all registered factories (for testing only).
func ClearFactories() {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	speechMap = make(map[string]SpeechFactory)
	reasonerMap = make(map[string]ReasonerFactory)
}
