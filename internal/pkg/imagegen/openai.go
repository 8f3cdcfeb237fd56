package imagegen

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider DALL·E 图片生成
type OpenAIProvider struct {
	client     *openai.Client
	uploader   Uploader
	httpClient *http.Client
}

func NewOpenAIProvider(apiKey string, uploader Uploader) *OpenAIProvider {
	return &OpenAIProvider{
		client:   openai.NewClient(apiKey),
		uploader: uploader,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Generate(ctx context.Context, req *Request) (*Result, error) {
	prompt := req.Prompt
	if req.Style != "" {
		prompt = fmt.Sprintf("%s, %s style", req.Prompt, req.Style)
	}

	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		N:              req.Count,
		Size:           sizeFor(req.Width, req.Height),
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("openai create image: %w", err)
	}

	result := &Result{}
	for i, item := range resp.Data {
		data, err := p.download(ctx, item.URL)
		if err != nil {
			log.Printf("openai: failed to download image %d: %v", i, err)
			result.Failed++
			continue
		}

		url, err := p.uploader.UploadImageWithRetry(req.UserID, i, data, ".png")
		if err != nil {
			log.Printf("openai: failed to re-upload image %d: %v", i, err)
			result.Failed++
			continue
		}

		result.URLs = append(result.URLs, url)
	}

	return result, nil
}

func (p *OpenAIProvider) download(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// sizeFor DALL·E 只支持固定尺寸，按请求宽度就近选择
func sizeFor(width, height int) string {
	max := width
	if height > max {
		max = height
	}
	switch {
	case max > 0 && max <= 256:
		return openai.CreateImageSize256x256
	case max > 0 && max <= 512:
		return openai.CreateImageSize512x512
	default:
		return openai.CreateImageSize1024x1024
	}
}
