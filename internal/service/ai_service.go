package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pdf-summarizer/internal/domain"
	apperrors "pdf-summarizer/pkg/errors"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const summaryPromptTemplate = "Write a concise and short summary of the following text in 300 words.\nText: `%s`"

// contentGenerator is the part of *genai.GenerativeModel the summarizer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// AIService summarizes document text with Gemini.
type AIService struct {
	model  contentGenerator
	client *genai.Client
	logger domain.Logger
}

// AIConfig holds the Vertex AI settings.
type AIConfig struct {
	ProjectID string
	Location  string
	Model     string
	APIKey    string
}

// NewAIService creates the Gemini client once; it is reused by every request.
func NewAIService(ctx context.Context, cfg AIConfig, logger domain.Logger) (*AIService, error) {
	var opts []option.ClientOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(0.5)

	logger.Info("Vertex AI client initialized", "project", cfg.ProjectID, "location", cfg.Location, "model", cfg.Model)
	return &AIService{
		model:  model,
		client: client,
		logger: logger,
	}, nil
}

func newAIServiceWithModel(model contentGenerator, logger domain.Logger) *AIService {
	return &AIService{model: model, logger: logger}
}

// BuildSummaryPrompt fills the fixed summary template with text.
func BuildSummaryPrompt(text string) string {
	return fmt.Sprintf(summaryPromptTemplate, text)
}

// Summarize sends a single request and returns the concatenated text parts
// of the first candidate.
func (s *AIService) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(BuildSummaryPrompt(text)))
	if err != nil {
		return "", classifyGenAIError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.NewUpstreamRejectedError("empty response from model", nil)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	summary := strings.TrimSpace(sb.String())
	if summary == "" {
		return "", apperrors.NewUpstreamRejectedError("empty response from model", nil)
	}

	if resp.UsageMetadata != nil {
		s.logger.Debug("Gemini usage",
			"prompt_tokens", resp.UsageMetadata.PromptTokenCount,
			"candidate_tokens", resp.UsageMetadata.CandidatesTokenCount)
	}
	return summary, nil
}

// Close releases the underlying client.
func (s *AIService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func classifyGenAIError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return apperrors.NewUpstreamRejectedError("model blocked the request", err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.NewUpstreamUnavailableError("gemini call timed out", err)
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.ResourceExhausted, codes.InvalidArgument, codes.FailedPrecondition:
			return apperrors.NewUpstreamRejectedError("gemini rejected the request", err)
		}
	}

	return apperrors.NewUpstreamUnavailableError("gemini call failed", err)
}
