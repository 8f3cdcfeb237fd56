package dto

// GenerateImageRequest 图片生成请求
type GenerateImageRequest struct {
	Prompt         string `json:"prompt" binding:"required,max=2000"`
	Style          string `json:"style,omitempty" binding:"omitempty,max=50"`
	Width          int    `json:"width,omitempty" binding:"omitempty,min=64,max=2048"`
	Height         int    `json:"height,omitempty" binding:"omitempty,min=64,max=2048"`
	NumberOfImages int    `json:"number_of_images,omitempty" binding:"omitempty,min=1,max=10"`
	ServiceType    string `json:"service_type,omitempty" binding:"omitempty,max=30"`
}

// GenerateImageResponse 图片生成响应
type GenerateImageResponse struct {
	URLs        []string `json:"urls"`
	FailedCount int      `json:"failed_count"`
	Provider    string   `json:"provider"`
	CreditsUsed int64    `json:"credits_used"`
}

// EstimateResponse 费用预估响应
type EstimateResponse struct {
	NumberOfImages int   `json:"number_of_images"`
	EstimatedCost  int64 `json:"estimated_cost"`
}

// ImageListItem 图片历史列表项
type ImageListItem struct {
	ID             int64  `json:"id"`
	Prompt         string `json:"prompt"`
	Style          string `json:"style,omitempty"`
	Provider       string `json:"provider"`
	URL            string `json:"url"`
	CreditsCharged int64  `json:"credits_charged"`
	CreatedAt      string `json:"created_at"`
}
