package provider

import (
	"context"

	"github.com/valpere/bettertext/internal"
)

// OpenAI uses strict json_schema response formats, which the endpoint
// enforces itself.
type OpenAI struct {
	chat *chatClient
}

func NewOpenAI(apiKey, model, baseURL string, opts ...Option) *OpenAI {
	return &OpenAI{chat: newChatClient("OpenAI", apiKey, model, baseURL, DefaultOpenAIBaseURL, opts)}
}

func (p *OpenAI) Name() string {
	return "openai"
}

func (p *OpenAI) Translate(ctx context.Context, req TranslateRequest) (*internal.Translation, error) {
	format := &responseFormat{
		Type: "json_schema",
		JSONSchema: &jsonSchemaFormat{
			Name:   "translation_with_examples",
			Strict: true,
			Schema: translationSchema,
		},
	}

	content, err := p.chat.complete(ctx, messages(translateSystemPrompt(req, false), req.Text), TranslateTemperature, format)
	if err != nil {
		return nil, err
	}
	return p.chat.parseTranslation(content)
}

func (p *OpenAI) Rewrite(ctx context.Context, req RewriteRequest) ([]string, error) {
	format := &responseFormat{
		Type: "json_schema",
		JSONSchema: &jsonSchemaFormat{
			Name:   "rewrite_variants",
			Strict: true,
			Schema: rewriteSchema,
		},
	}

	content, err := p.chat.complete(ctx, messages(rewriteSystemPrompt(req, false), req.Text), RewriteTemperature, format)
	if err != nil {
		return nil, err
	}
	return p.chat.parseRewrites(content)
}
