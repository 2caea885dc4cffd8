package model

// CostUsageLog 每筆事件寫入後送出的稽核紀錄
type CostUsageLog struct {
	EventID        string  `json:"event_id"`
	Owner          string  `json:"owner,omitempty"`
	Provider       string  `json:"provider"`
	Endpoint       string  `json:"endpoint"`
	Method         string  `json:"method,omitempty"`
	Feature        string  `json:"feature"`
	RequestCount   int64   `json:"request_count"`
	InputTokens    int64   `json:"input_tokens,omitempty"`
	OutputTokens   int64   `json:"output_tokens,omitempty"`
	ResponseTimeMs int64   `json:"response_time_ms"`
	Status         string  `json:"status"`
	StatusCode     int     `json:"status_code,omitempty"`
	BillingMode    string  `json:"billing_mode"`
	Cost           float64 `json:"cost"`
	EventTS        string  `json:"event_ts"`
	Version        string  `json:"version"`
	LoggedAt       string  `json:"logged_at"`
}

// AlertLog 異常偵測建立告警時送出
type AlertLog struct {
	AlertID  string         `json:"alert_id"`
	Type     string         `json:"type"`
	Severity string         `json:"severity"`
	Provider string         `json:"provider"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Version  string         `json:"version"`
	LoggedAt string         `json:"logged_at"`
}
