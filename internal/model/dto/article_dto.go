package dto

// GenerateArticleRequest 文章生成请求
type GenerateArticleRequest struct {
	Topic    string   `json:"topic" binding:"required,max=500"`
	Keywords []string `json:"keywords,omitempty" binding:"omitempty,max=10,dive,max=50"`
	Tone     string   `json:"tone,omitempty" binding:"omitempty,oneof=professional casual humorous"`
	Length   string   `json:"length" binding:"required,oneof=short medium long"`
}

// GenerateArticleResponse 文章生成响应
type GenerateArticleResponse struct {
	ArticleID   int64 `json:"article_id"`
	JobID       int64 `json:"job_id"`
	CreditsHeld int64 `json:"credits_held"`
}

// ArticleListItem 文章列表项
type ArticleListItem struct {
	ID             int64  `json:"id"`
	Title          string `json:"title,omitempty"`
	Topic          string `json:"topic"`
	Length         string `json:"length"`
	Status         string `json:"status"`
	CreditsCharged int64  `json:"credits_charged"`
	CreatedAt      string `json:"created_at"`
}

// ArticleDetail 文章详情
type ArticleDetail struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title,omitempty"`
	Topic          string   `json:"topic"`
	Keywords       []string `json:"keywords,omitempty"`
	Tone           string   `json:"tone,omitempty"`
	Length         string   `json:"length"`
	Content        string   `json:"content,omitempty"`
	Model          string   `json:"model,omitempty"`
	Status         string   `json:"status"`
	ErrorMessage   string   `json:"error_message,omitempty"`
	CreditsCharged int64    `json:"credits_charged"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// JobStatusResponse 任务状态响应
type JobStatusResponse struct {
	JobID          int64  `json:"job_id"`
	ArticleID      int64  `json:"article_id"`
	Status         string `json:"status"`
	CurrentStep    string `json:"current_step,omitempty"`
	ElapsedSeconds int    `json:"elapsed_seconds,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	StartedAt      string `json:"started_at,omitempty"`
}
