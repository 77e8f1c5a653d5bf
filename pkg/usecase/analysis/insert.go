package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
	"google.golang.org/genai"
)

const visionPrompt = `Provide a detailed medical analysis of this image.
Include:
1. Description of key findings
2. Possible diagnoses
3. Recommendations for clinical correlation or follow-up

Format your response with "Radiological Analysis" and "Impression" sections.`

// Insert creates a new analysis record from analysis text, extracting
// findings and keywords, and persists it.
func (u *UseCase) Insert(
	ctx context.Context,
	analysisText string,
	filename string,
) (*model.Analysis, error) {
	if strings.TrimSpace(analysisText) == "" {
		return nil, goerr.New("analysis text is empty")
	}

	findings, keywords := ExtractFindings(analysisText)

	analysis := &model.Analysis{
		ID:        model.NewAnalysisID(),
		Analysis:  analysisText,
		Findings:  findings,
		Keywords:  keywords,
		CreatedAt: time.Now(),
		Filename:  filename,
	}

	if err := u.repo.PutAnalysis(ctx, analysis); err != nil {
		return nil, err
	}

	return analysis, nil
}

// AnalyzeImage sends a medical image to the vision model and stores the
// resulting analysis. The image bytes must already be decoded from whatever
// container format they arrived in.
func (u *UseCase) AnalyzeImage(
	ctx context.Context,
	imageData []byte,
	mimeType string,
	filename string,
) (*model.Analysis, error) {
	if u.gemini == nil {
		return nil, goerr.New("vision backend is not configured")
	}
	if len(imageData) == 0 {
		return nil, goerr.New("image data is empty")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(imageData, mimeType),
			genai.NewPartFromText(visionPrompt),
		}, genai.RoleUser),
	}

	resp, err := u.gemini.GenerateContent(ctx, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to analyze image", goerr.V("filename", filename))
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, goerr.New("vision model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	analysisText := sb.String()
	if strings.TrimSpace(analysisText) == "" {
		return nil, goerr.New("vision model returned empty analysis")
	}

	return u.Insert(ctx, analysisText, filename)
}
