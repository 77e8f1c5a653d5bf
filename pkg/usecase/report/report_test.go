package report_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/repository"
	"github.com/r-ahemad/radiqa/pkg/usecase/report"
)

// mockStorage collects archived documents in memory
type mockStorage struct {
	data map[string][]byte
}

func newMockStorage() *mockStorage {
	return &mockStorage{data: make(map[string][]byte)}
}

type mockWriteCloser struct {
	*bytes.Buffer
	storage *mockStorage
	key     string
}

func (m *mockWriteCloser) Close() error {
	m.storage.data[m.key] = m.Buffer.Bytes()
	return nil
}

func (m *mockStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	return &mockWriteCloser{Buffer: &bytes.Buffer{}, storage: m, key: key}, nil
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, goerr.New("document not found", goerr.V("key", key))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestRender(t *testing.T) {
	a := &model.Analysis{
		ID:        "rep-1",
		Analysis:  "Clear lungs. No effusion.",
		Findings:  []string{"clear lungs"},
		Keywords:  []string{"clear"},
		CreatedAt: time.Date(2025, 8, 1, 14, 30, 0, 0, time.UTC),
		Filename:  "xray.png",
	}

	doc := report.Render(a)
	gt.S(t, doc).Contains("# Medical Imaging Analysis Report")
	gt.S(t, doc).Contains("Report ID: rep-1")
	gt.S(t, doc).Contains("Image: xray.png")
	gt.S(t, doc).Contains("1. clear lungs")
	gt.S(t, doc).Contains("clear")
	gt.S(t, doc).Contains("Date: 2025-08-01 14:30")
}

func TestRenderWithoutOptionalSections(t *testing.T) {
	a := &model.Analysis{
		ID:        "rep-2",
		Analysis:  "Unremarkable.",
		CreatedAt: time.Date(2025, 8, 1, 14, 30, 0, 0, time.UTC),
	}

	doc := report.Render(a)
	gt.S(t, doc).NotContains("Key Findings")
	gt.S(t, doc).NotContains("Keywords")
	gt.S(t, doc).Contains("Image: unknown")
}

func TestGenerateArchivesReport(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	storage := newMockStorage()

	a := &model.Analysis{
		ID:        model.NewAnalysisID(),
		Analysis:  "Small nodule in the left upper lobe.",
		CreatedAt: time.Now(),
	}
	gt.NoError(t, repo.PutAnalysis(ctx, a))

	uc := report.New(repo, storage)
	key := gt.R1(uc.Generate(ctx, a.ID)).NoError(t)
	gt.Equal(t, key, "reports/"+string(a.ID)+".md")

	reader := gt.R1(storage.Get(ctx, key)).NoError(t)
	defer reader.Close()
	data := gt.R1(io.ReadAll(reader)).NoError(t)
	gt.S(t, string(data)).Contains("Small nodule")
}

func TestGenerateMissingAnalysis(t *testing.T) {
	ctx := context.Background()
	uc := report.New(repository.NewMemory(), newMockStorage())

	_, err := uc.Generate(ctx, "missing")
	gt.Error(t, err)
}
