package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/raglab/docchat/internal/core/domain"
)

func TestChatSessionAppendsOneTurnPerAsk(t *testing.T) {
	session := NewChatSession(&fakeRetriever{chunks: rankedChunks("doc.txt")}, &fakeGenerator{answer: "sure"}, nil)

	for i, question := range []string{"first?", "second?", "third?"} {
		turn, err := session.Ask(context.Background(), question)
		if err != nil {
			t.Fatalf("Ask(%q) error = %v", question, err)
		}
		if turn.Question != question || turn.Answer != "sure" {
			t.Fatalf("unexpected turn %+v", turn)
		}
		if got := len(session.Turns()); got != i+1 {
			t.Fatalf("after ask %d history has %d turns", i+1, got)
		}
	}
}

func TestChatSessionCitationsRestartEveryTurn(t *testing.T) {
	generator := &fakeGenerator{answer: "ok"}
	session := NewChatSession(&fakeRetriever{chunks: rankedChunks("a", "b")}, generator, nil)

	first, err := session.Ask(context.Background(), "one?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	second, err := session.Ask(context.Background(), "two?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	for _, tc := range []struct {
		name      string
		citations domain.CitationMap
	}{
		{"first", first.Citations},
		{"second", second.Citations},
	} {
		if _, ok := tc.citations[1]; !ok {
			t.Fatalf("%s turn citations do not start at 1", tc.name)
		}
		if len(tc.citations) != 2 {
			t.Fatalf("%s turn has %d citations", tc.name, len(tc.citations))
		}
	}
	if !strings.HasPrefix(generator.calls[1].contextBlock, "[source1]=") {
		t.Fatalf("second turn context not renumbered: %q", generator.calls[1].contextBlock)
	}
}

func TestChatSessionPassesHistoryToGenerator(t *testing.T) {
	generator := &fakeGenerator{answer: "a"}
	session := NewChatSession(&fakeRetriever{}, generator, nil)

	if _, err := session.Ask(context.Background(), "one?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if _, err := session.Ask(context.Background(), "two?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if len(generator.calls[0].history) != 0 {
		t.Fatalf("first turn saw non-empty history: %v", generator.calls[0].history)
	}
	history := generator.calls[1].history
	if len(history) != 1 || history[0].Question != "one?" {
		t.Fatalf("second turn history = %v", history)
	}
}

func TestChatSessionFailedTurnLeavesHistoryUntouched(t *testing.T) {
	generator := &fakeGenerator{err: errBackendDown}
	session := NewChatSession(&fakeRetriever{chunks: rankedChunks("a")}, generator, nil)

	if _, err := session.Ask(context.Background(), "q?"); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if got := len(session.Turns()); got != 0 {
		t.Fatalf("failed turn appended to history, len = %d", got)
	}
}

func TestChatSessionTurnsReturnsCopy(t *testing.T) {
	session := NewChatSession(&fakeRetriever{}, &fakeGenerator{answer: "a"}, nil)
	if _, err := session.Ask(context.Background(), "q?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	turns := session.Turns()
	turns[0].Answer = "mutated"
	if session.Turns()[0].Answer != "a" {
		t.Fatalf("history mutated through returned slice")
	}
}
