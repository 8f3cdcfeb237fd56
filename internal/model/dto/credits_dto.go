package dto

// BalanceResponse 余额信息
type BalanceResponse struct {
	Credits         int64 `json:"credits"`
	ReservedCredits int64 `json:"reserved_credits"`
}

// CreditStats 积分统计
type CreditStats struct {
	UsedThisMonth  int64            `json:"used_this_month"`
	UsedTotal      int64            `json:"used_total"`
	PurchasedTotal int64            `json:"purchased_total"`
	UsageByFeature map[string]int64 `json:"usage_by_feature"`
}

// TransactionItem 流水列表项
type TransactionItem struct {
	ID          int64  `json:"id"`
	Amount      int64  `json:"amount"`
	Type        string `json:"type"`
	Feature     string `json:"feature,omitempty"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}
