package qa_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/r-ahemad/radiqa/pkg/adapter"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/repository"
	"github.com/r-ahemad/radiqa/pkg/usecase/qa"
	openai "github.com/sashabaranov/go-openai"
)

// mockOpenAI implements adapter.OpenAI with programmable responses
type mockOpenAI struct {
	embedFn    func(text string) ([]float64, error)
	chatFn     func(messages []openai.ChatCompletionMessage) (string, error)
	embedCalls int
	chatCalls  int
	lastChat   []openai.ChatCompletionMessage
}

func (m *mockOpenAI) Embedding(ctx context.Context, text string) ([]float64, error) {
	m.embedCalls++
	if m.embedFn != nil {
		return m.embedFn(text)
	}
	return []float64{1, 0, 0}, nil
}

func (m *mockOpenAI) ChatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (string, error) {
	m.chatCalls++
	m.lastChat = messages
	if m.chatFn != nil {
		return m.chatFn(messages)
	}
	return "mock answer", nil
}

func newTestEngine(t *testing.T, repo repository.Repository, mock *mockOpenAI) *qa.Engine {
	t.Helper()
	return qa.New(qa.NewInput{
		Repo:   repo,
		APIKey: "test-key",
		NewClient: func(apiKey string) adapter.OpenAI {
			if apiKey == "" {
				return nil
			}
			return mock
		},
	})
}

func putAnalysis(t *testing.T, repo repository.Repository, text string, findings ...string) *model.Analysis {
	t.Helper()
	a := &model.Analysis{
		ID:        model.NewAnalysisID(),
		Analysis:  text,
		Findings:  findings,
		CreatedAt: time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
	}
	gt.NoError(t, repo.PutAnalysis(context.Background(), a))
	return a
}

func TestRetrieveRanking(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	putAnalysis(t, repo, "pleural effusion on the right side")
	putAnalysis(t, repo, "no acute cardiopulmonary findings")
	putAnalysis(t, repo, "large pneumothorax with mediastinal shift")

	// The query vector points at (1,0,0); candidate vectors are keyed off
	// the record text so ranking is deterministic.
	mock := &mockOpenAI{
		embedFn: func(text string) ([]float64, error) {
			switch {
			case strings.Contains(text, "pleural effusion"):
				return []float64{0.9, 0.1, 0}, nil
			case strings.Contains(text, "no acute"):
				return []float64{0, 1, 0}, nil
			case strings.Contains(text, "pneumothorax"):
				return []float64{0.5, 0.5, 0}, nil
			default: // query
				return []float64{1, 0, 0}, nil
			}
		},
	}
	engine := newTestEngine(t, repo, mock)

	texts := gt.R1(engine.Retrieve(ctx, "effusion?", 3)).NoError(t)
	gt.A(t, texts).Length(3)
	gt.S(t, texts[0]).Contains("pleural effusion")
	gt.S(t, texts[1]).Contains("pneumothorax")
	gt.S(t, texts[2]).Contains("no acute")
}

func TestRetrieveTopKBounds(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	for i := 0; i < 4; i++ {
		putAnalysis(t, repo, "analysis record")
	}
	engine := newTestEngine(t, repo, &mockOpenAI{})

	t.Run("topK below store size", func(t *testing.T) {
		texts := gt.R1(engine.Retrieve(ctx, "q", 2)).NoError(t)
		gt.A(t, texts).Length(2)
	})

	t.Run("topK above store size returns all", func(t *testing.T) {
		texts := gt.R1(engine.Retrieve(ctx, "q", 10)).NoError(t)
		gt.A(t, texts).Length(4)
	})

	t.Run("topK below 1 is rejected", func(t *testing.T) {
		_, err := engine.Retrieve(ctx, "q", 0)
		gt.Error(t, err)
	})
}

func TestRetrieveEmptyStore(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, repository.NewMemory(), &mockOpenAI{})

	texts := gt.R1(engine.Retrieve(ctx, "anything", 3)).NoError(t)
	gt.A(t, texts).Length(0)
}

func TestRetrieveSkipsEmptyAnalysis(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	putAnalysis(t, repo, "   \n\t ")
	putAnalysis(t, repo, "No acute findings.")
	engine := newTestEngine(t, repo, &mockOpenAI{})

	texts := gt.R1(engine.Retrieve(ctx, "any question", 3)).NoError(t)
	gt.A(t, texts).Length(1)
	gt.S(t, texts[0]).Contains("No acute findings.")
}

func TestRetrieveStableTieBreak(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	putAnalysis(t, repo, "first record")
	putAnalysis(t, repo, "second record")
	putAnalysis(t, repo, "third record")

	// All candidates score identically, so insertion order must hold
	engine := newTestEngine(t, repo, &mockOpenAI{})

	for i := 0; i < 5; i++ {
		texts := gt.R1(engine.Retrieve(ctx, "q", 3)).NoError(t)
		gt.A(t, texts).Length(3)
		gt.S(t, texts[0]).Contains("first")
		gt.S(t, texts[1]).Contains("second")
		gt.S(t, texts[2]).Contains("third")
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	ctx := context.Background()
	mock := &mockOpenAI{}
	engine := newTestEngine(t, repository.NewMemory(), mock)

	for _, q := range []string{"", "   ", "\n\t"} {
		resp := engine.Ask(ctx, q)
		gt.True(t, resp.Degraded)
		gt.S(t, resp.Text).Contains("Please enter a question")
	}

	// Neither embedding nor chat must be reached
	gt.Equal(t, mock.embedCalls, 0)
	gt.Equal(t, mock.chatCalls, 0)
	gt.Equal(t, len(engine.HistoryTurns()), 0)
}

func TestAskAppendsHistory(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	putAnalysis(t, repo, "No acute findings.")
	engine := newTestEngine(t, repo, &mockOpenAI{})

	resp := engine.Ask(ctx, "Is the chest x-ray normal?")
	gt.True(t, !resp.Degraded)
	gt.Equal(t, resp.Text, "mock answer")

	turns := engine.HistoryTurns()
	gt.A(t, turns).Length(2)
	gt.Equal(t, turns[0].Role, qa.RoleUser)
	gt.Equal(t, turns[0].Content, "Is the chest x-ray normal?")
	gt.Equal(t, turns[1].Role, qa.RoleAssistant)
	gt.Equal(t, turns[1].Content, "mock answer")
}

func TestAskHistoryWindow(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, repository.NewMemory(), &mockOpenAI{})

	for i := 0; i < 13; i++ {
		engine.Ask(ctx, "question")
	}

	turns := engine.HistoryTurns()
	gt.A(t, turns).Length(qa.DefaultHistoryLimit)
	// Most recent turn is always the latest assistant reply
	gt.Equal(t, turns[len(turns)-1].Role, qa.RoleAssistant)
}

func TestAskEmptyStoreStillAnswers(t *testing.T) {
	ctx := context.Background()
	mock := &mockOpenAI{}
	engine := newTestEngine(t, repository.NewMemory(), mock)

	resp := engine.Ask(ctx, "anything stored?")
	gt.True(t, resp.Text != "")
	gt.Equal(t, mock.chatCalls, 1)
}

func TestAskChatFailure(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	putAnalysis(t, repo, "No acute findings.")

	mock := &mockOpenAI{
		chatFn: func([]openai.ChatCompletionMessage) (string, error) {
			return "", goerr.New("rate limit exceeded")
		},
	}
	engine := newTestEngine(t, repo, mock)

	resp := engine.Ask(ctx, "what happened?")
	gt.True(t, resp.Degraded)
	gt.S(t, resp.Text).Contains("error")
	gt.S(t, resp.Text).Contains("rate limit exceeded")

	// The failed attempt's user turn is not rolled back
	turns := engine.HistoryTurns()
	gt.A(t, turns).Length(1)
	gt.Equal(t, turns[0].Role, qa.RoleUser)
}

func TestAskSnapshotIncludesQuestion(t *testing.T) {
	ctx := context.Background()
	mock := &mockOpenAI{}
	engine := newTestEngine(t, repository.NewMemory(), mock)

	engine.Ask(ctx, "the new question")

	gt.True(t, len(mock.lastChat) >= 2)
	last := mock.lastChat[len(mock.lastChat)-1]
	gt.Equal(t, last.Role, openai.ChatMessageRoleUser)
	gt.Equal(t, last.Content, "the new question")
	gt.Equal(t, mock.lastChat[0].Role, openai.ChatMessageRoleSystem)
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, repository.NewMemory(), &mockOpenAI{})

	engine.Ask(ctx, "q1")
	engine.Ask(ctx, "q2")
	gt.True(t, len(engine.HistoryTurns()) > 0)

	msg := engine.ClearHistory()
	gt.S(t, msg).Contains("cleared")
	gt.Equal(t, len(engine.HistoryTurns()), 0)

	// Clearing an already empty history also succeeds
	engine.ClearHistory()
	gt.Equal(t, len(engine.HistoryTurns()), 0)
}

func TestSetAPIKey(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, repository.NewMemory(), &mockOpenAI{})
	gt.Equal(t, engine.APIKey(), "test-key")

	// Dropping the credential degrades answering instead of failing hard
	engine.SetAPIKey("")
	gt.Equal(t, engine.APIKey(), "")

	resp := engine.Ask(ctx, "still there?")
	gt.True(t, resp.Degraded)
	gt.S(t, resp.Text).Contains("error")
}
