package provider

import (
	"log/slog"
	"testing"

	"github.com/medscribe/clinical-copilot/internal/domain"
)

func TestRegisterAndCreateSpeech(t *testing.T) {
	ClearFactories()
	t.Cleanup(ClearFactories)

	created := false
	RegisterSpeechFactory(SpeechFactory{
		Name:        "test-speech",
		Description: "test speech provider",
		Create: func(deps Deps) (domain.SpeechProvider, error) {
			created = true
			return nil, nil
		},
	})

	if _, err := NewSpeech("test-speech", Deps{Logger: slog.Default()}); err != nil {
		t.Fatalf("NewSpeech: %v", err)
	}
	if !created {
		t.Error("factory Create was not invoked")
	}
}

func TestNewSpeechUnknownType(t *testing.T) {
	ClearFactories()
	t.Cleanup(ClearFactories)

	RegisterSpeechFactory(SpeechFactory{
		Name:   "scripted",
		Create: func(Deps) (domain.SpeechProvider, error) { return nil, nil },
	})

	_, err := NewSpeech("whisper", Deps{})
	if err == nil {
		t.Fatal("expected error for unknown speech provider")
	}
	want := "unknown speech provider: whisper (registered types: [scripted])"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestNewReasonerUnknownType(t *testing.T) {
	ClearFactories()
	t.Cleanup(ClearFactories)

	if _, err := NewReasoner("llm", Deps{}); err == nil {
		t.Fatal("expected error for unknown reasoner")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	ClearFactories()
	t.Cleanup(ClearFactories)

	f := SpeechFactory{
		Name:   "dup",
		Create: func(Deps) (domain.SpeechProvider, error) { return nil, nil },
	}
	RegisterSpeechFactory(f)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	RegisterSpeechFactory(f)
}

func TestTypesSorted(t *testing.T) {
	ClearFactories()
	t.Cleanup(ClearFactories)

	for _, name := range []string{"zeta", "alpha", "mike"} {
		RegisterReasonerFactory(ReasonerFactory{
			Name:   name,
			Create: func(Deps) (domain.Reasoner, error) { return nil, nil },
		})
	}

	got := ReasonerTypes()
	want := []string{"alpha", "mike", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ReasonerTypes() = %v, want %v", got, want)
		}
	}
}
