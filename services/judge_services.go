package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"api/config"
	"api/metrics"
	"api/models"

	"github.com/sashabaranov/go-openai"
)

// Verdict is the structured outcome of an automated evaluation. SubmittedAt
// echoes the submission timestamp the evaluation was requested for, so a late
// verdict can be audited against the round it belongs to.
type Verdict struct {
	Status         string    `json:"status"`
	Confidence     float64   `json:"confidence"`
	PointsFraction float64   `json:"points_fraction"`
	Notes          string    `json:"notes"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Evaluator scores a proof against a challenge. Implemented by JudgeService;
// the worker and tests accept the interface.
type Evaluator interface {
	Evaluate(ctx context.Context, proofReference, userDescription string, challenge *models.Challenge, submittedAt time.Time) (*Verdict, error)
}

type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// JudgeService wraps the external scoring model. It never mutates attempt
// state; verdicts flow back through the attempt service.
type JudgeService struct {
	client completionClient
	model  string
}

const judgeSystemPrompt = `You are a strict verification judge for a recycling rewards program.
Given a challenge description and a user's proof of completion, decide whether the proof
satisfies the challenge. Respond with a single JSON object and nothing else:
{"status": "completed" | "rejected" | "needs_review", "confidence": <0..1>, "points_fraction": <0..1>, "notes": "<short explanation for the user>"}`

// NewJudgeService builds the judge from JUDGE_* configuration. A custom base
// URL allows any OpenAI-compatible scoring endpoint.
func NewJudgeService() *JudgeService {
	clientConfig := openai.DefaultConfig(config.JudgeAPIKey)
	if config.JudgeAPIBase != "" {
		clientConfig.BaseURL = config.JudgeAPIBase
	}
	log.Printf("Judge initialized with model %s", config.JudgeModel)
	return &JudgeService{
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.JudgeModel,
	}
}

// Evaluate scores one proof. Invoked at most once synchronously per dispatch;
// retry policy belongs to the caller.
func (j *JudgeService) Evaluate(ctx context.Context, proofReference, userDescription string, challenge *models.Challenge, submittedAt time.Time) (*Verdict, error) {
	prompt := fmt.Sprintf(
		"Challenge: %s\n\nDescription: %s\n\nPoints available: %d\n\nUser's description of their proof: %s\n\nProof link: %s",
		challenge.Title, challenge.Description, challenge.PointsAvailable, userDescription, proofReference,
	)

	start := time.Now()
	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: judgeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	metrics.JudgeCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.JudgeCalls.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("judge call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.JudgeCalls.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("judge returned no choices")
	}

	verdict, err := parseVerdict(resp.Choices[0].Message.Content, submittedAt)
	if err != nil {
		metrics.JudgeCalls.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.JudgeCalls.WithLabelValues("ok").Inc()
	return verdict, nil
}

// parseVerdict decodes and range-checks the judge's JSON response. A
// malformed response is an infrastructure error, never a rejection.
func parseVerdict(raw string, submittedAt time.Time) (*Verdict, error) {
	raw = strings.TrimSpace(raw)
	// Some models wrap JSON in a fenced code block despite instructions
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var verdict Verdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return nil, fmt.Errorf("malformed judge response: %w", err)
	}

	switch verdict.Status {
	case "completed", "rejected", "needs_review":
	default:
		return nil, fmt.Errorf("judge returned unknown status %q", verdict.Status)
	}
	if verdict.Confidence < 0 || verdict.Confidence > 1 {
		return nil, fmt.Errorf("judge confidence %f out of range", verdict.Confidence)
	}
	if verdict.PointsFraction < 0 || verdict.PointsFraction > 1 {
		return nil, fmt.Errorf("judge points fraction %f out of range", verdict.PointsFraction)
	}

	verdict.SubmittedAt = submittedAt
	return &verdict, nil
}
