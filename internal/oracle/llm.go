package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	sitter "github.com/smacker/go-tree-sitter"

	"collint/internal/syntax"
)

// LLMOracle uses Claude to resolve expression kinds during deep analysis
type LLMOracle struct {
	client anthropic.Client
}

// NewLLMOracle creates a Claude-backed oracle, or nil when no
// ANTHROPIC_API_KEY is set
func NewLLMOracle() *LLMOracle {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &LLMOracle{client: client}
}

// ResolveType asks Claude what kind of value the expression holds,
// sending the surrounding source lines as context
func (o *LLMOracle) ResolveType(ctx context.Context, file *syntax.File, node *sitter.Node) (*Resolution, error) {
	if o == nil {
		return nil, fmt.Errorf("oracle not initialized (missing ANTHROPIC_API_KEY)")
	}

	expr := file.Text(node)
	window := snippet(file.Source, int(node.StartPoint().Row), 8)

	prompt := fmt.Sprintf(`Determine what kind of value this JavaScript expression holds at runtime.

Expression: %s

Surrounding code:
%s

Respond with JSON only:
{"kind": "array|object|arraylike|unknown", "confidence": 0-100, "reason": "one sentence"}

"array" means a JS Array (truthiness is checked via .length).
"arraylike" means a Set, Map, or similar container with .size.
"object" means a plain object whose keys carry the data.
Use "unknown" unless the surrounding code makes the kind clear.

Return ONLY the JSON, no other text.`, expr, truncate(window, 4000))

	resp, err := o.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude3_5Haiku20241022,
		MaxTokens: 300,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Claude API error: %w", err)
	}

	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	return parseResolution(responseText)
}

// parseResolution interprets the model's JSON reply. An "unknown" verdict
// maps to a nil Resolution so callers fall through to their heuristics.
func parseResolution(text string) (*Resolution, error) {
	var result struct {
		Kind       string `json:"kind"`
		Confidence int    `json:"confidence"`
		Reason     string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &result); err != nil {
		return nil, fmt.Errorf("parse oracle response: %w", err)
	}

	switch result.Kind {
	case "unknown", "":
		return nil, nil
	case "array", "object", "arraylike":
	default:
		return nil, fmt.Errorf("oracle returned unrecognized kind %q", result.Kind)
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 100 {
		result.Confidence = 100
	}

	return &Resolution{
		Kind:       result.Kind,
		Confidence: result.Confidence,
		Reason:     result.Reason,
	}, nil
}

func snippet(src []byte, row, radius int) string {
	lines := strings.Split(string(src), "\n")
	lo := row - radius
	if lo < 0 {
		lo = 0
	}
	hi := row + radius + 1
	if hi > len(lines) {
		hi = len(lines)
	}
	return strings.Join(lines[lo:hi], "\n")
}

func truncate(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "\n...[truncated]..."
}
