package generator

import "context"

// LLMClient 抽象大模型客户端，便于替换/Mock。
// Complete 用于文本生成；CompleteWithImage 把图片地址作为附加输入，用于图片判断。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
	CompleteWithImage(ctx context.Context, prompt Prompt, imageURL string) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider    string
	Model       string
	VisionModel string
	APIKey      string
	BaseURL     string
	APIVersion  string
}
