// Package openai provides an annotator-backed entity extractor. When no API
// key is configured the impact engine falls back to its built-in heuristic
package openai

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"fxradar/internal/platform/logger"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 15 * time.Second
	maxInputRunes  = 4000
)

const systemPrompt = "You extract named entities from financial news. " +
	"Reply with a JSON array of distinct entity strings (people, institutions, " +
	"countries, organizations) and nothing else."

// Extractor satisfies the impact engine's Extractor interface
type Extractor struct {
	client  openai.Client
	model   string
	timeout time.Duration
	log     logger.Logger
}

// New constructs the extractor
func New(apiKey, model string, log logger.Logger) *Extractor {
	if model == "" {
		model = defaultModel
	}
	return &Extractor{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: defaultTimeout,
		log:     log,
	}
}

// Extract asks the annotator for named entities. Any failure degrades to an
// empty list; the caller treats entity extraction as best-effort
func (e *Extractor) Extract(text string) []string {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if r := []rune(text); len(r) > maxInputRunes {
		text = string(r[:maxInputRunes])
	}

	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: e.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(text),
					},
				},
			},
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		e.log.Warn().Err(err).Msg("entity annotation failed")
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}

	var entities []string
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "` \n")
	if err := json.Unmarshal([]byte(content), &entities); err != nil {
		e.log.Warn().Err(err).Msg("unparseable annotation response")
		return nil
	}

	seen := make(map[string]struct{}, len(entities))
	out := entities[:0]
	for _, ent := range entities {
		ent = strings.TrimSpace(ent)
		if ent == "" {
			continue
		}
		if _, ok := seen[ent]; ok {
			continue
		}
		seen[ent] = struct{}{}
		out = append(out, ent)
	}
	sort.Strings(out)
	return out
}
