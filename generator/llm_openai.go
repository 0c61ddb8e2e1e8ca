package generator

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// Works for any OpenAI-compatible endpoint (openai, deepseek, azure deployments).
type OpenAILLM struct {
	Model       string
	VisionModel string
	Opts        []option.RequestOption

	client openai.Client
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide llm.api_key")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}

	var opts []option.RequestOption
	switch cfg.Provider {
	case "azure":
		// Azure 按 deployment 路由，鉴权头为 api-key。
		if cfg.BaseURL == "" || cfg.APIVersion == "" {
			return nil, errors.New("azure provider requires base_url and api_version")
		}
		base := strings.TrimRight(cfg.BaseURL, "/") + "/openai/deployments/" + cfg.Model + "/"
		opts = append(opts,
			option.WithBaseURL(base),
			option.WithQuery("api-version", cfg.APIVersion),
			option.WithHeader("api-key", cfg.APIKey),
		)
	default:
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
	}

	vision := cfg.VisionModel
	if vision == "" {
		vision = cfg.Model
	}
	return &OpenAILLM{
		Model:       cfg.Model,
		VisionModel: vision,
		Opts:        opts,
		client:      openai.NewClient(opts...),
	}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	msgs := buildMessages(prompt)
	msgs = append(msgs, openai.UserMessage(prompt.User))
	return o.create(ctx, o.Model, msgs)
}

// CompleteWithImage 以低精度附上图片，图片之前可带一段用户文字。
func (o *OpenAILLM) CompleteWithImage(ctx context.Context, prompt Prompt, imageURL string) (string, error) {
	msgs := buildMessages(prompt)
	parts := []openai.ChatCompletionContentPartUnionParam{}
	if prompt.User != "" {
		parts = append(parts, openai.TextContentPart(prompt.User))
	}
	parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
		URL:    imageURL,
		Detail: "low",
	}))
	msgs = append(msgs, openai.UserMessage(parts))
	return o.create(ctx, o.VisionModel, msgs)
}

func (o *OpenAILLM) create(ctx context.Context, model string, msgs []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: msgs,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(prompt Prompt) []openai.ChatCompletionMessageParamUnion {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt.System),
	}
	for _, h := range prompt.History {
		role := h.Role
		if role == "" {
			role = "user"
		}
		switch role {
		case "assistant":
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(h.Content))
		default:
			msgs = append(msgs, openai.UserMessage(h.Content))
		}
	}
	return msgs
}
