package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/valpere/bettertext/internal"
	"github.com/valpere/bettertext/internal/postprocess"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatClient performs one POST to {baseURL}/chat/completions.
type chatClient struct {
	name    string
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func newChatClient(name, apiKey, model, baseURL, defaultBaseURL string, opts []Option) *chatClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &chatClient{
		name:    name,
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// complete returns the content of the first choice.
func (c *chatClient) complete(ctx context.Context, messages []chatMessage, temperature float64, format *responseFormat) (string, error) {
	body := chatRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    temperature,
		MaxTokens:      MaxTokens,
		ResponseFormat: format,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", c.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{Provider: c.name, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &MalformedResponseError{Provider: c.name, Raw: string(raw), Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &MalformedResponseError{Provider: c.name, Raw: string(raw), Err: errors.New("empty choices")}
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

type translationPayload struct {
	Translation string             `json:"translation"`
	Examples    []internal.Example `json:"examples"`
}

type rewritePayload struct {
	Rewrites []string `json:"rewrites"`
}

// decodeContent parses the JSON object inside content into dst. The object
// may be wrapped in a code fence or preceded by reasoning.
func (c *chatClient) decodeContent(content string, dst any) error {
	obj, ok := postprocess.ExtractJSON(content)
	if !ok {
		return &MalformedResponseError{Provider: c.name, Raw: content, Err: errors.New("no JSON object in content")}
	}
	if err := json.Unmarshal([]byte(obj), dst); err != nil {
		return &MalformedResponseError{Provider: c.name, Raw: content, Err: err}
	}
	return nil
}

func (c *chatClient) parseTranslation(content string) (*internal.Translation, error) {
	var p translationPayload
	if err := c.decodeContent(content, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Translation) == "" {
		return nil, &MalformedResponseError{Provider: c.name, Raw: content, Err: errors.New("missing translation")}
	}

	examples := make([]internal.Example, 0, ExampleCount)
	for _, ex := range p.Examples {
		if len(examples) == ExampleCount {
			break
		}
		if ex.Source == "" && ex.Target == "" {
			continue
		}
		examples = append(examples, ex)
	}

	return &internal.Translation{Text: strings.TrimSpace(p.Translation), Examples: examples}, nil
}

func (c *chatClient) parseRewrites(content string) ([]string, error) {
	var p rewritePayload
	if err := c.decodeContent(content, &p); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(p.Rewrites))
	for _, r := range p.Rewrites {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	if len(out) != VariantCount {
		return nil, &MalformedResponseError{
			Provider: c.name,
			Raw:      content,
			Err:      fmt.Errorf("expected %d rewrites, got %d", VariantCount, len(out)),
		}
	}
	return out, nil
}
