package provider

import (
	"context"

	"github.com/valpere/bettertext/internal"
)

// DeepSeek has no schema enforcement, so the expected JSON shape is spelled
// out in the system prompt and the raw answer is parsed leniently.
type DeepSeek struct {
	chat *chatClient
}

func NewDeepSeek(apiKey, model, baseURL string, opts ...Option) *DeepSeek {
	return &DeepSeek{chat: newChatClient("DeepSeek", apiKey, model, baseURL, DefaultDeepSeekBaseURL, opts)}
}

func (p *DeepSeek) Name() string {
	return "deepseek"
}

func (p *DeepSeek) Translate(ctx context.Context, req TranslateRequest) (*internal.Translation, error) {
	content, err := p.chat.complete(ctx, messages(translateSystemPrompt(req, true), req.Text), TranslateTemperature, nil)
	if err != nil {
		return nil, err
	}
	return p.chat.parseTranslation(content)
}

func (p *DeepSeek) Rewrite(ctx context.Context, req RewriteRequest) ([]string, error) {
	content, err := p.chat.complete(ctx, messages(rewriteSystemPrompt(req, true), req.Text), RewriteTemperature, nil)
	if err != nil {
		return nil, err
	}
	return p.chat.parseRewrites(content)
}
