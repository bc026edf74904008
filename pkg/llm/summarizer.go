package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bloomscroll/bloomscroll/pkg/config"
	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// Summarizer uses an LLM to produce calm card summaries and content scores
type Summarizer struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
}

// NewSummarizer creates a new LLM summarizer
func NewSummarizer(cfg config.LLMConfig) *Summarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
	}
}

// default system prompt for card annotation
const defaultSystemPrompt = `You are an editor for a calm, slow-reading feed. For each card produce:
- guid: the card's GUID
- summary: a neutral, non-sensational summary (100-300 chars). Strip clickbait, urgency and outrage framing. State what happened, not how to feel about it. Write in the same language as the card content. NEVER use phrases like "The article discusses" or "This piece covers".
- bias_score: 0.0-1.0, how one-sided the framing is (0 = balanced, 1 = heavily slanted)
- constructiveness_score: 0.0-1.0, how much the content informs or helps rather than alarms (0 = pure outrage, 1 = actionable and informative)
- blindspot_tags: array of 0-3 keywords for perspectives or regions the mainstream coverage of this topic tends to miss. Empty array if none apply.

Examples of good summaries:
- "Global solar capacity grew 24% last year, led by utility-scale projects in China and India. Storage buildout lags generation, grid operators are testing longer-duration batteries."
- "A community land trust in Detroit converted 40 vacant lots into neighborhood gardens over five years, funded by a mix of city grants and resident dues."

Examples of bad summaries:
- "You won't BELIEVE what solar did this year..."
- "The article discusses community gardens in Detroit..."`

// Annotation is the per-card output of the summarizer
type Annotation struct {
	GUID                  string   `json:"guid"`
	Summary               string   `json:"summary"`
	BiasScore             float64  `json:"bias_score"`
	ConstructivenessScore float64  `json:"constructiveness_score"`
	BlindspotTags         []string `json:"blindspot_tags"`
}

// Annotate summarizes and scores a batch of cards
func (s *Summarizer) Annotate(ctx context.Context, cards []domain.Card) ([]Annotation, error) {
	if len(cards) == 0 {
		return []Annotation{}, nil
	}

	prompt := s.buildPrompt(cards)

	// retry up to 3 times if we get invalid JSON
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		chatReq := openai.ChatCompletionRequest{
			Model:       s.config.Model,
			Temperature: float32(s.config.Temperature),
			MaxTokens:   s.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: s.systemMsg,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		}

		// add JSON response format if enabled
		if s.config.UseJSONMode {
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}

		resp, err := s.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no response from llm")
		}

		content := resp.Choices[0].Message.Content
		annotations, err := s.parseResponse(content, cards)
		if err == nil {
			return annotations, nil
		}

		lastErr = err

		// if this was a JSON parsing error, retry
		if strings.Contains(err.Error(), "failed to parse json") || strings.Contains(err.Error(), "no json array found") {
			continue
		}

		return nil, err
	}

	return nil, fmt.Errorf("failed after 3 attempts: %w", lastErr)
}

// buildPrompt creates the annotation prompt for the LLM
func (s *Summarizer) buildPrompt(cards []domain.Card) string {
	var sb strings.Builder

	sb.WriteString("Annotate these cards:\n\n")
	for i, card := range cards {
		sb.WriteString(fmt.Sprintf("%d. GUID: %s\n", i+1, card.GUID))
		sb.WriteString(fmt.Sprintf("   Source: %s\n", card.SourceType))
		sb.WriteString(fmt.Sprintf("   Title: %s\n", card.Title))
		if card.Summary != "" {
			sb.WriteString(fmt.Sprintf("   Description: %s\n", card.Summary))
		}
		if content := card.EmbeddingText(); content != "" {
			// limit content to first 500 chars
			if len(content) > 500 {
				content = content[:500] + "..."
			}
			sb.WriteString(fmt.Sprintf("   Content: %s\n", content))
		}
		sb.WriteString("\n")
	}

	if s.config.UseJSONMode {
		sb.WriteString("Respond with a JSON object containing an 'annotations' array of annotation objects.")
	} else {
		sb.WriteString("Respond with a JSON array of annotation objects.")
	}
	return sb.String()
}

// parseResponse parses the LLM response into annotations
func (s *Summarizer) parseResponse(content string, cards []domain.Card) ([]Annotation, error) {
	var annotations []Annotation

	if s.config.UseJSONMode {
		// parse as JSON object with annotations array
		var resp struct {
			Annotations []Annotation `json:"annotations"`
		}
		if err := json.Unmarshal([]byte(content), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse json object response: %w", err)
		}
		annotations = resp.Annotations
	} else {
		// parse as JSON array
		start := strings.Index(content, "[")
		end := strings.LastIndex(content, "]")
		if start == -1 || end == -1 || start >= end {
			return nil, fmt.Errorf("no json array found in response")
		}

		jsonStr := content[start : end+1]
		if err := json.Unmarshal([]byte(jsonStr), &annotations); err != nil {
			return nil, fmt.Errorf("failed to parse json array response: %w", err)
		}
	}

	// keep only annotations for known cards, clamp scores to [0, 1]
	guidMap := make(map[string]bool)
	for _, card := range cards {
		guidMap[card.GUID] = true
	}

	var valid []Annotation
	for _, ann := range annotations {
		if !guidMap[ann.GUID] {
			continue
		}
		ann.BiasScore = clamp01(ann.BiasScore)
		ann.ConstructivenessScore = clamp01(ann.ConstructivenessScore)
		valid = append(valid, ann)
	}

	return valid, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
