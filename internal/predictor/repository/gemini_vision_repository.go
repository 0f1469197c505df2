package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-chart-predictor/internal/predictor/config"
	"golang-chart-predictor/internal/predictor/dto"
	"golang-chart-predictor/pkg/logger"
	"golang-chart-predictor/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiVisionRepository is an implementation of VisionAIRepository that
// uses the Google Gemini API.
type geminiVisionRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiVisionRepository creates a new instance of geminiVisionRepository.
func NewGeminiVisionRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (VisionAIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiVisionRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// DescribeChart sends the screenshot with a description prompt. Transport
// failures surface as ErrVisionUnavailable; non-conforming model output is
// recovered by ParseChartDescription and never returned as an error.
func (r *geminiVisionRepository) DescribeChart(ctx context.Context, image []byte, mimeType, filename string) (*dto.ChartDescriptionResult, error) {
	prompt := BuildDescribeChartPrompt(filename)

	parts := []dto.Part{
		{InlineData: &dto.InlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(image),
		}},
		{Text: prompt},
	}

	geminiResp, err := r.executeGeminiRequest(ctx, r.cfg.Gemini.VisionModel, prompt, parts)
	if err != nil {
		return nil, err
	}

	return ParseChartDescription(candidateText(geminiResp)), nil
}

// EnsembleVote asks for a direction/confidence/reasoning triple given the
// current observation and its closest analogs. Any failure is returned to
// the caller, which degrades the vote to neutral.
func (r *geminiVisionRepository) EnsembleVote(ctx context.Context, current dto.ChartObservation, patterns []dto.ScoredPattern, headlines []string) (*dto.AIVoteResult, error) {
	prompt := BuildEnsembleVotePrompt(current, patterns, headlines)

	geminiResp, err := r.executeGeminiRequest(ctx, r.cfg.Gemini.Model, prompt, []dto.Part{{Text: prompt}})
	if err != nil {
		return nil, err
	}

	return parseEnsembleVoteResponse(geminiResp)
}

func (r *geminiVisionRepository) executeGeminiRequest(ctx context.Context, model, prompt string, parts []dto.Part) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w: %w", err, ErrVisionUnavailable)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	if int(geminiTokenResp.TotalTokens) > r.cfg.Gemini.MaxTokenPerMinute/2 {
		r.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: parts}},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to marshal payload", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		r.logger.Error("Failed to create new http request", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w: %w", err, ErrVisionUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", resp.StatusCode))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("received %d from Gemini API: %s: %w", resp.StatusCode, string(body), ErrVisionUnavailable)
		}
		return nil, fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		r.logger.Error("Failed to decode response body", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &geminiResp, nil
}

// candidateText pulls the first candidate's text, empty when the response
// carries no content. An empty string flows into the defensive parser and
// comes back as the neutral default observation.
func candidateText(resp *dto.GeminiAPIResponse) string {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return resp.Candidates[0].Content.Parts[0].Text
}

func parseEnsembleVoteResponse(resp *dto.GeminiAPIResponse) (*dto.AIVoteResult, error) {
	rawJSON := candidateText(resp)
	if rawJSON == "" {
		return nil, fmt.Errorf("no content found in Gemini response")
	}
	rawJSON = strings.Trim(rawJSON, "`json\n`")

	var result dto.AIVoteResult
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ensemble vote from Gemini response: %w", err)
	}

	return &result, nil
}
