package articlegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

var ErrEmptyCompletion = errors.New("llm returned empty completion")

// 长度档位对应的目标字数
var lengthWords = map[string]int{
	"short":  500,
	"medium": 1200,
	"long":   2500,
}

// WriteRequest 文章生成请求
type WriteRequest struct {
	Topic    string
	Keywords []string
	Tone     string
	Length   string
}

// WriteResult 文章生成结果
type WriteResult struct {
	Title   string
	Content string
	Model   string
}

// Writer 基于 Chat Completion 的文章生成器
type Writer struct {
	client *openai.Client
	model  string
}

func NewWriter(apiKey, model string) *Writer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Writer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Write 生成文章。第一行作为标题，其余作为正文
func (w *Writer) Write(ctx context.Context, req *WriteRequest) (*WriteResult, error) {
	words := lengthWords[req.Length]
	if words == 0 {
		words = lengthWords["medium"]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write an article about: %s\n", req.Topic)
	fmt.Fprintf(&sb, "Target length: about %d words.\n", words)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&sb, "Include these keywords naturally: %s.\n", strings.Join(req.Keywords, ", "))
	}
	if req.Tone != "" {
		fmt.Fprintf(&sb, "Tone: %s.\n", req.Tone)
	}
	sb.WriteString("Start with the article title on the first line, then the article body in Markdown.")

	resp, err := w.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: w.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a professional content writer producing well-structured, SEO-friendly articles.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: sb.String(),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrEmptyCompletion
	}

	title, content := splitTitle(resp.Choices[0].Message.Content)
	return &WriteResult{
		Title:   title,
		Content: content,
		Model:   w.model,
	}, nil
}

// splitTitle 取第一行作为标题，去掉 Markdown 标题前缀
func splitTitle(text string) (string, string) {
	text = strings.TrimSpace(text)
	idx := strings.Index(text, "\n")
	if idx < 0 {
		return strings.TrimLeft(text, "# "), ""
	}

	title := strings.TrimSpace(strings.TrimLeft(text[:idx], "# "))
	content := strings.TrimSpace(text[idx+1:])
	return title, content
}
