package intent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/moneylens/moneylens/adapter/contract"
)

type fakeCompleter struct {
	reply        string
	err          error
	systemPrompt string
	userPrompt   string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.systemPrompt = systemPrompt
	f.userPrompt = userPrompt
	return f.reply, f.err
}

func TestClassifyPromptEmbedsCatalogAndToday(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{reply: `["accounts"]`}
	classifier := NewClassifier(completer, "YNAB")

	today := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	decision, err := classifier.Classify(context.Background(), "What is my net worth?", testCatalog(), today)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if decision.Kind != contractx.IntentAccounts {
		t.Fatalf("Kind = %q, want accounts", decision.Kind)
	}

	if !strings.Contains(completer.systemPrompt, "2025-06-09") {
		t.Error("system prompt missing today's date")
	}
	if !strings.Contains(completer.systemPrompt, `"id":"accounts"`) {
		t.Error("system prompt missing accounts tool id")
	}
	if !strings.Contains(completer.systemPrompt, `"id":"transactions"`) {
		t.Error("system prompt missing transactions tool id")
	}
	if completer.userPrompt != "Query: What is my net worth?" {
		t.Errorf("user prompt = %q", completer.userPrompt)
	}
}

func TestClassifyCompletionFailure(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{err: errors.New("upstream 401")}
	classifier := NewClassifier(completer, "YNAB")

	_, err := classifier.Classify(context.Background(), "anything", testCatalog(), time.Now())
	if !errors.Is(err, contractx.ErrClassification) {
		t.Fatalf("Classify() error = %v, want ErrClassification", err)
	}
}

func TestClassifyGarbageReplyIsNotAnError(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{reply: "I am unable to call tools."}
	classifier := NewClassifier(completer, "Actual")

	decision, err := classifier.Classify(context.Background(), "anything", testCatalog(), time.Now())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if decision.Kind != contractx.IntentNone {
		t.Fatalf("Kind = %q, want none", decision.Kind)
	}
}
