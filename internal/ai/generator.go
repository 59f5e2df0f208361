package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// Client wraps the OpenAI API as a plain prompt-in/text-out collaborator.
// Every caller is expected to hold a fallback string and tolerate errors;
// generation failure must never surface to the user.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new generation client.
func NewClient(apiKey, model string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Generate runs a single chat completion and returns the trimmed text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SummarizeAnswer condenses one Q&A pair into a short context summary used
// to bias future generated questions.
func (c *Client) SummarizeAnswer(ctx context.Context, questionText, answerText string) (string, error) {
	prompt := fmt.Sprintf(`Summarize the following Q&A into up to 3 plain sentences of user context.
Question: %q
Answer: %q
Return only the summary.`, questionText, answerText)

	return c.Generate(ctx, prompt)
}

// ScheduleWindow is the parsed form of a natural-language schedule request.
type ScheduleWindow struct {
	Start time.Time
	End   time.Time
	Count int
}

type scheduleResponse struct {
	StartISO string `json:"start_iso"`
	EndISO   string `json:"end_iso"`
	Count    int    `json:"count"`
}

// ParseScheduleWindow turns a request like "3 times next week, mornings"
// into a concrete time window and slot count.
func (c *Client) ParseScheduleWindow(ctx context.Context, request, timezone string, now time.Time) (*ScheduleWindow, error) {
	if timezone == "" {
		timezone = "UTC"
	}

	prompt := fmt.Sprintf(`Parse the following natural language schedule request.
Return ONLY a JSON object with fields: start_iso, end_iso, count (integer).
Use timezone: %s. Current time is %s.
Schedule request: %q

Example response: {"start_iso": "2025-01-20T09:00:00Z", "end_iso": "2025-01-24T18:00:00Z", "count": 3}`,
		timezone, now.UTC().Format(time.RFC3339), strings.TrimSpace(request))

	text, err := c.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// Models occasionally wrap the JSON in a markdown fence.
	text = strings.TrimSpace(strings.ReplaceAll(text, "```json", ""))
	text = strings.TrimSpace(strings.ReplaceAll(text, "```", ""))

	var parsed scheduleResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		logrus.WithError(err).WithField("response", text).Warn("Failed to parse schedule response")
		return nil, fmt.Errorf("invalid schedule response: %v", err)
	}

	start, err := time.Parse(time.RFC3339, parsed.StartISO)
	if err != nil {
		return nil, fmt.Errorf("invalid start_iso in schedule response: %v", err)
	}
	end, err := time.Parse(time.RFC3339, parsed.EndISO)
	if err != nil {
		return nil, fmt.Errorf("invalid end_iso in schedule response: %v", err)
	}

	count := parsed.Count
	if count < 1 {
		count = 1
	}
	if count > 100 {
		count = 100
	}

	return &ScheduleWindow{Start: start, End: end, Count: count}, nil
}
