package tools

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spartacus-ai/spartacus/agentic"
)

func register(t *testing.T, defs ...*agentic.Definition) *agentic.Registry {
	t.Helper()
	reg, err := agentic.NewRegistry(defs...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestFinalAnswerDefinition(t *testing.T) {
	def := FinalAnswer()
	register(t, def)

	if def.Name != agentic.FinalAnswerToolName {
		t.Errorf("Name = %q", def.Name)
	}

	out, err := def.Invoke(context.Background(), nil, json.RawMessage(`{"answer":"42"}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out != "Final answer provided: 42" {
		t.Errorf("out = %q", out)
	}
}

func TestFileReaderReadsLineRange(t *testing.T) {
	root := t.TempDir()
	content := "alpha\nbeta\ngamma\ndelta\n"
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	def := FileReader(root)
	register(t, def)

	out, err := def.Invoke(context.Background(), nil, json.RawMessage(`{"path":"notes.txt","offset":2,"limit":2}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !strings.Contains(out, "2 | beta") || !strings.Contains(out, "3 | gamma") {
		t.Errorf("unexpected range output: %q", out)
	}
	if strings.Contains(out, "alpha") || strings.Contains(out, "delta") {
		t.Errorf("lines outside the range leaked: %q", out)
	}
}

func TestFileReaderRefusesEscape(t *testing.T) {
	root := t.TempDir()
	def := FileReader(root)
	register(t, def)

	_, err := def.Invoke(context.Background(), nil, json.RawMessage(`{"path":"../../etc/passwd"}`))
	if err == nil {
		t.Fatal("expected refusal for path outside root")
	}
	var terr *agentic.ToolError
	if !errors.As(err, &terr) {
		t.Errorf("expected ToolError, got %T", err)
	}
}

func TestWebSearchStub(t *testing.T) {
	def := WebSearch(nil)
	register(t, def)

	_, err := def.Invoke(context.Background(), nil, json.RawMessage(`{"query":"go"}`))
	if !errors.Is(err, ErrSearchNotConfigured) {
		t.Errorf("expected ErrSearchNotConfigured, got %v", err)
	}
}

type fakeSearcher struct {
	query string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	f.query = query
	return []SearchResult{{Title: "Result", URL: "https://example.com"}}, nil
}

func TestWebSearchWithBackend(t *testing.T) {
	searcher := &fakeSearcher{}
	def := WebSearch(searcher)
	register(t, def)

	out, err := def.Invoke(context.Background(), nil, json.RawMessage(`{"query":"anvils"}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if searcher.query != "anvils" {
		t.Errorf("query did not reach the backend: %q", searcher.query)
	}
	if !strings.Contains(out, "example.com") {
		t.Errorf("results missing from output: %q", out)
	}
}

func TestSearchProductsInjection(t *testing.T) {
	def := SearchProducts()
	register(t, def)

	conv := agentic.NewContext("s1")
	conv.IndexName = "catalog"
	conv.Products = []string{"Iron Anvil", "Rubber Duck", "Steel Anvil"}

	out, err := def.Invoke(context.Background(), conv, json.RawMessage(`{"query":"anvil"}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !strings.Contains(out, "Iron Anvil") || !strings.Contains(out, "Steel Anvil") {
		t.Errorf("matches missing: %q", out)
	}
	if strings.Contains(out, "Rubber Duck") {
		t.Errorf("non-match leaked: %q", out)
	}

	// The context-update callback recorded the matches.
	if _, ok := conv.Meta("last_product_matches"); !ok {
		t.Error("context update did not record matches")
	}
}

func TestSearchProductsRequiresContext(t *testing.T) {
	def := SearchProducts()
	register(t, def)

	_, err := def.Invoke(context.Background(), nil, json.RawMessage(`{"query":"anvil"}`))
	var merr *agentic.MissingContextError
	if !errors.As(err, &merr) {
		t.Errorf("expected MissingContextError, got %v", err)
	}
}

func TestPythonExecutorSchema(t *testing.T) {
	def := PythonExecutor(NewRunner(t.TempDir()))
	reg := register(t, def)

	// Missing required code field fails validation before execution.
	_, err := def.Invoke(context.Background(), nil, json.RawMessage(`{}`))
	var verr *agentic.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}

	defs := reg.Definitions()
	if defs[0].Name != "python_executor" {
		t.Errorf("exported schema name = %q", defs[0].Name)
	}
}
