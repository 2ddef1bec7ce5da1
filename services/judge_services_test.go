package services

import (
	"context"
	"testing"
	"time"

	"api/models"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	submittedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	verdict, err := parseVerdict(`{"status":"completed","confidence":0.82,"points_fraction":1.0,"notes":"clear match"}`, submittedAt)
	require.NoError(t, err)
	assert.Equal(t, "completed", verdict.Status)
	assert.Equal(t, 0.82, verdict.Confidence)
	assert.Equal(t, "clear match", verdict.Notes)
	assert.Equal(t, submittedAt, verdict.SubmittedAt, "the original submission timestamp must be echoed back")
}

func TestParseVerdictFencedJSON(t *testing.T) {
	raw := "```json\n{\"status\":\"needs_review\",\"confidence\":0.4,\"points_fraction\":0,\"notes\":\"unclear\"}\n```"

	verdict, err := parseVerdict(raw, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "needs_review", verdict.Status)
}

func TestParseVerdictErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "the proof looks fine to me"},
		{"empty", ""},
		{"unknown status", `{"status":"maybe","confidence":0.5,"points_fraction":0.5,"notes":""}`},
		{"confidence above range", `{"status":"completed","confidence":1.2,"points_fraction":1,"notes":""}`},
		{"confidence below range", `{"status":"completed","confidence":-0.1,"points_fraction":1,"notes":""}`},
		{"fraction out of range", `{"status":"completed","confidence":0.9,"points_fraction":2,"notes":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseVerdict(tt.raw, time.Now())
			assert.Error(t, err)
		})
	}
}

type fakeCompletionClient struct {
	content string
	err     error
	request openai.ChatCompletionRequest
}

func (f *fakeCompletionClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.request = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestJudgeEvaluate(t *testing.T) {
	fake := &fakeCompletionClient{content: `{"status":"completed","confidence":0.9,"points_fraction":1,"notes":"ok"}`}
	judge := &JudgeService{client: fake, model: "test-model"}

	challenge := &models.Challenge{Title: "E-Waste Roundup", Description: "Bring old electronics", PointsAvailable: 120}
	submittedAt := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	verdict, err := judge.Evaluate(context.Background(), "https://cdn.example.com/proof.jpg", "dropped off two phones", challenge, submittedAt)
	require.NoError(t, err)

	assert.Equal(t, 0.9, verdict.Confidence)
	assert.Equal(t, submittedAt, verdict.SubmittedAt)
	assert.Equal(t, "test-model", fake.request.Model)

	// The challenge context and proof both reach the judge prompt
	require.Len(t, fake.request.Messages, 2)
	prompt := fake.request.Messages[1].Content
	assert.Contains(t, prompt, "E-Waste Roundup")
	assert.Contains(t, prompt, "https://cdn.example.com/proof.jpg")
	assert.Contains(t, prompt, "120")
}

func TestJudgeEvaluateEmptyChoices(t *testing.T) {
	judge := &JudgeService{client: &emptyChoicesClient{}, model: "test-model"}

	_, err := judge.Evaluate(context.Background(), "https://cdn.example.com/p.jpg", "", &models.Challenge{}, time.Now())
	assert.Error(t, err)
}

type emptyChoicesClient struct{}

func (emptyChoicesClient) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}
