package dto

// UpdateSettingsRequest 更新偏好/通知设置请求，内容为自由结构的对象
type UpdateSettingsRequest struct {
	Settings map[string]interface{} `json:"settings" binding:"required"`
}

// CreateAPIKeyRequest 创建 API Key 请求
type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreateAPIKeyResponse 创建 API Key 响应，key 明文只返回这一次
type CreateAPIKeyResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Key       string `json:"key"`
	KeyPrefix string `json:"key_prefix"`
	CreatedAt string `json:"created_at"`
}

// APIKeyItem API Key 列表项
type APIKeyItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	KeyPrefix  string `json:"key_prefix"`
	LastUsedAt string `json:"last_used_at,omitempty"`
	CreatedAt  string `json:"created_at"`
}
