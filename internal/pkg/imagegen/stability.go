package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const stabilityBaseURL = "https://api.stability.ai"

// StabilityProvider Stability AI 图片生成
type StabilityProvider struct {
	apiKey     string
	engine     string
	baseURL    string
	uploader   Uploader
	httpClient *http.Client
}

func NewStabilityProvider(apiKey, engine string, uploader Uploader) *StabilityProvider {
	if engine == "" {
		engine = "stable-diffusion-xl-1024-v1-0"
	}
	return &StabilityProvider{
		apiKey:   apiKey,
		engine:   engine,
		baseURL:  stabilityBaseURL,
		uploader: uploader,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (p *StabilityProvider) Name() string {
	return "stability"
}

type stabilityRequest struct {
	TextPrompts []stabilityPrompt `json:"text_prompts"`
	Width       int               `json:"width,omitempty"`
	Height      int               `json:"height,omitempty"`
	Samples     int               `json:"samples"`
	StylePreset string            `json:"style_preset,omitempty"`
}

type stabilityPrompt struct {
	Text string `json:"text"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

func (p *StabilityProvider) Generate(ctx context.Context, req *Request) (*Result, error) {
	body := &stabilityRequest{
		TextPrompts: []stabilityPrompt{{Text: req.Prompt}},
		Width:       req.Width,
		Height:      req.Height,
		Samples:     req.Count,
		StylePreset: req.Style,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", p.baseURL, p.engine)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stability request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stability api error: %s", string(respBody))
	}

	var stabilityResp stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&stabilityResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &Result{}
	for i, artifact := range stabilityResp.Artifacts {
		imgData, err := base64.StdEncoding.DecodeString(artifact.Base64)
		if err != nil {
			log.Printf("stability: failed to decode image %d: %v", i, err)
			result.Failed++
			continue
		}

		uploadedURL, err := p.uploader.UploadImageWithRetry(req.UserID, i, imgData, ".png")
		if err != nil {
			log.Printf("stability: failed to re-upload image %d: %v", i, err)
			result.Failed++
			continue
		}

		result.URLs = append(result.URLs, uploadedURL)
	}

	return result, nil
}
