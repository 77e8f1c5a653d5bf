package qa

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/adapter"
	"github.com/r-ahemad/radiqa/pkg/repository"
	"github.com/r-ahemad/radiqa/pkg/utils/logging"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultTopK       = 3
	maxAnswerTokens   = 500
	answerTemperature = 0.3
	chatTimeout       = 60 * time.Second
)

const systemPrompt = `You are a medical report QA assistant. Answer questions about previously analyzed medical images, grounding every answer in the stored analyses provided below. If the analyses do not cover the question, say so instead of speculating.`

const emptyQuestionMessage = "Please enter a question about your medical reports."

var errNoAPIKey = goerr.New("OpenAI API key is not configured")

// Engine answers questions against the stored analyses using
// retrieval-augmented generation. It owns the conversation history and is
// safe for use from concurrent request handlers; calls are serialized.
type Engine struct {
	mu sync.Mutex

	repo    repository.Repository
	client  adapter.OpenAI
	apiKey  string
	history *History
	topK    int

	// newClient rebuilds the backend client when the credential is swapped
	// at runtime. Tests replace it to inject mock adapters.
	newClient func(apiKey string) adapter.OpenAI
}

// NewInput contains parameters for creating a QA engine
type NewInput struct {
	Repo         repository.Repository
	APIKey       string
	TopK         int // retrieved contexts per question, default 3
	HistoryLimit int // retained conversation turns, default 10

	// NewClient overrides backend client construction, used by tests
	NewClient func(apiKey string) adapter.OpenAI
}

func New(input NewInput) *Engine {
	topK := input.TopK
	if topK < 1 {
		topK = defaultTopK
	}

	newClient := input.NewClient
	if newClient == nil {
		newClient = func(apiKey string) adapter.OpenAI {
			if apiKey == "" {
				return nil
			}
			return adapter.NewOpenAI(apiKey)
		}
	}

	return &Engine{
		repo:      input.Repo,
		apiKey:    input.APIKey,
		history:   NewHistory(input.HistoryLimit),
		topK:      topK,
		newClient: newClient,
		client:    newClient(input.APIKey),
	}
}

// Response is the tagged result of a question. Degraded marks answers
// produced on a fallback path (random embeddings or a failed model call) so
// callers can tell them apart from grounded answers without string matching.
type Response struct {
	Text     string
	Degraded bool
	Reason   string
}

// Ask answers a question against the stored analyses. It never returns an
// error: every failure is converted into a Response with Degraded set.
func (x *Engine) Ask(ctx context.Context, question string) *Response {
	x.mu.Lock()
	defer x.mu.Unlock()

	// Empty questions are rejected before any backend call
	if strings.TrimSpace(question) == "" {
		return &Response{Text: emptyQuestionMessage, Degraded: true, Reason: "empty question"}
	}

	contexts, grounded, err := x.retrieve(ctx, question, x.topK)
	if err != nil {
		// Store read failures still produce an answer attempt with no context
		logging.From(ctx).Warn("context retrieval failed", "error", err)
		contexts = nil
		grounded = false
	}

	// The new question joins the history before the model call so the
	// snapshot sent to the model includes it. On failure it stays there.
	x.history.Append(RoleUser, question)

	answer, err := x.generate(ctx, contexts)
	if err != nil {
		logging.From(ctx).Warn("chat completion failed", "error", err)
		return &Response{
			Text:     "I encountered an error while answering your question: " + err.Error(),
			Degraded: true,
			Reason:   "chat completion failed",
		}
	}

	x.history.Append(RoleAssistant, answer)

	resp := &Response{Text: answer}
	if !grounded {
		resp.Degraded = true
		resp.Reason = "retrieval used fallback embeddings"
	}
	return resp
}

// AnswerQuestion answers a question and returns the answer text. It never
// fails; degraded answers are returned as plain strings.
func (x *Engine) AnswerQuestion(ctx context.Context, question string) string {
	return x.Ask(ctx, question).Text
}

// generate composes the prompt from retrieved context and the history
// window, then invokes the chat model. Caller holds the engine lock.
func (x *Engine) generate(ctx context.Context, contexts []string) (string, error) {
	if x.client == nil {
		return "", errNoAPIKey
	}

	var sb strings.Builder
	sb.WriteString(systemPrompt)
	if len(contexts) > 0 {
		sb.WriteString("\n\nRelevant analyses:\n\n")
		for i, c := range contexts {
			if i > 0 {
				sb.WriteString("\n---\n")
			}
			sb.WriteString(c)
		}
	} else {
		sb.WriteString("\n\nNo stored analyses are available.")
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: sb.String()},
	}
	for _, turn := range x.history.Turns() {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	answer, err := x.client.ChatCompletion(ctx, messages, maxAnswerTokens, answerTemperature)
	if err != nil {
		return "", err
	}
	return answer, nil
}

// ClearHistory empties the conversation history. The analysis store and the
// configured credential are untouched.
func (x *Engine) ClearHistory() string {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.history.Clear()
	return "Conversation history cleared."
}

// HistoryTurns returns a snapshot of the retained conversation turns
func (x *Engine) HistoryTurns() []Turn {
	x.mu.Lock()
	defer x.mu.Unlock()

	return x.history.Turns()
}

// SetAPIKey swaps the active credential. The new key is not validated until
// the next backend call.
func (x *Engine) SetAPIKey(apiKey string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if apiKey == x.apiKey {
		return
	}
	x.apiKey = apiKey
	x.client = x.newClient(apiKey)
}

// APIKey returns the active credential
func (x *Engine) APIKey() string {
	x.mu.Lock()
	defer x.mu.Unlock()

	return x.apiKey
}
