package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeBackend struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeBackend) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestDraftGeneratorMockMode(t *testing.T) {
	t.Parallel()

	g := NewDraftGenerator(nil, "rewrite", 100, nil)

	for i := 0; i < 3; i++ {
		draft, ok := g.Generate(context.Background(), "anything")
		if !ok {
			t.Fatalf("mock mode must report success")
		}
		if draft != MockDraft {
			t.Fatalf("expected fixed mock string, got %q", draft)
		}
	}
}

func TestDraftGeneratorPassesTruncatedInput(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{reply: "rewritten"}
	g := NewDraftGenerator(backend, "Rewrite this.", 10, nil)

	draft, ok := g.Generate(context.Background(), strings.Repeat("x", 50))
	if !ok || draft != "rewritten" {
		t.Fatalf("unexpected result: %q ok=%v", draft, ok)
	}

	if !strings.Contains(backend.prompt, "Rewrite this.") {
		t.Fatalf("prompt missing system instruction: %q", backend.prompt)
	}
	if strings.Count(backend.prompt, "x") != 10 {
		t.Fatalf("input not truncated to limit: %q", backend.prompt)
	}
}

func TestDraftGeneratorTruncateRespectsRuneBoundary(t *testing.T) {
	t.Parallel()

	// 3-byte runes; a byte cut at 10 would land mid-rune.
	in := strings.Repeat("日", 5)
	out := truncate(in, 10)

	if out != strings.Repeat("日", 3) {
		t.Fatalf("expected cut at rune boundary, got %q", out)
	}
}

func TestDraftGeneratorBackendFailure(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{err: errors.New("quota exceeded")}
	g := NewDraftGenerator(backend, "", 100, nil)

	draft, ok := g.Generate(context.Background(), "text")
	if ok {
		t.Fatalf("backend failure must report degraded")
	}
	if draft != FailedDraft {
		t.Fatalf("expected labeled failure draft, got %q", draft)
	}
}

func TestDraftGeneratorEmptyBackendReply(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{reply: "   \n"}
	g := NewDraftGenerator(backend, "", 100, nil)

	draft, ok := g.Generate(context.Background(), "text")
	if ok || draft != FailedDraft {
		t.Fatalf("blank reply must degrade to failure draft, got %q ok=%v", draft, ok)
	}
}
