// Package registration wires the built-in providers into the factory
// registry. Registration is explicit rather than init-based so cmd binaries
// and tests control exactly what gets registered.
package registration

import (
	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/provider"
	"github.com/medscribe/clinical-copilot/internal/reasoner"
	"github.com/medscribe/clinical-copilot/internal/scripted"
)

// RegisterBuiltins registers the built-in speech and reasoner providers.
// Call it once before constructing providers from configuration.
func RegisterBuiltins() {
	RegisterSpeechBuiltins()
	RegisterReasonerBuiltins()
}

// RegisterSpeechBuiltins registers built-in speech providers only.
func RegisterSpeechBuiltins() {
	provider.RegisterSpeechFactory(provider.SpeechFactory{
		Name:        "scripted",
		Description: "deterministic playback of scripted encounter transcripts",
		Create: func(deps provider.Deps) (domain.SpeechProvider, error) {
			var opts []scripted.Option
			if deps.PlaybackSpeed > 0 {
				opts = append(opts, scripted.WithPlaybackSpeed(deps.PlaybackSpeed))
			}
			return scripted.New(opts...), nil
		},
	})
}

// RegisterReasonerBuiltins registers built-in reasoners only.
func RegisterReasonerBuiltins() {
	provider.RegisterReasonerFactory(provider.ReasonerFactory{
		Name:        "fixture",
		Description: "fixture-backed clinical reasoning with deterministic output",
		Create: func(deps provider.Deps) (domain.Reasoner, error) {
			return reasoner.New(deps.Logger), nil
		},
	})
}
