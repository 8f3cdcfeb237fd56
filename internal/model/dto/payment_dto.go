package dto

// PlanItem 套餐列表项
type PlanItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	PriceCents     int64    `json:"price_cents"`
	MonthlyCredits int64    `json:"monthly_credits"`
	IsLifetime     bool     `json:"is_lifetime"`
	Features       []string `json:"features,omitempty"`
	Popular        bool     `json:"popular"`
}

// SubscriptionStatus 订阅状态
type SubscriptionStatus struct {
	PlanID          string `json:"plan_id,omitempty"`
	PlanName        string `json:"plan_name,omitempty"`
	Active          bool   `json:"active"`
	IsLifetime      bool   `json:"is_lifetime"`
	ExpiresAt       string `json:"expires_at,omitempty"`
	DaysRemaining   *int   `json:"days_remaining,omitempty"`
	Credits         int64  `json:"credits"`
	ReservedCredits int64  `json:"reserved_credits"`
}

// CreateIntentRequest 创建支付意向请求
type CreateIntentRequest struct {
	PlanID string `json:"plan_id" binding:"required,max=50"`
}

// BuyCreditsRequest 购买积分包请求
type BuyCreditsRequest struct {
	PackID string `json:"pack_id" binding:"required,max=50"`
}

// CreateIntentResponse 创建支付意向响应
type CreateIntentResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
}

// ProcessPaymentRequest 确认支付请求
type ProcessPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required,max=100"`
}

// ProcessPaymentResponse 确认支付响应
type ProcessPaymentResponse struct {
	PlanID         string `json:"plan_id,omitempty"`
	CreditsGranted int64  `json:"credits_granted"`
	Credits        int64  `json:"credits"`
}
