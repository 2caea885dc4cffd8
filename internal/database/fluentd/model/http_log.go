package model

// RequestLog 每個 API 請求一筆；ingest 路徑另外帶 provider / batch_size
type RequestLog struct {
	RequestID   string `json:"request_id"`
	Route       string `json:"route,omitempty"`
	Path        string `json:"path"`
	Method      string `json:"method"`
	ProjectName string `json:"project_name,omitempty"`
	Body        string `json:"body,omitempty"`
	IPHash      string `json:"ip_hash,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
	Provider    string `json:"provider,omitempty"`
	BatchSize   int    `json:"batch_size,omitempty"`
	Version     string `json:"version,omitempty"`
	RequestTS   string `json:"request_ts"`
	LoggedAt    string `json:"logged_at"`
}

// ResponseLog 與 RequestLog 以 request_id 對應
type ResponseLog struct {
	RequestID   string  `json:"request_id"`
	Route       string  `json:"route,omitempty"`
	ProjectName string  `json:"project_name,omitempty"`
	Code        int     `json:"code"`
	StatusCode  int     `json:"status_code"`
	DurationMs  float64 `json:"duration_ms"`
	Body        string  `json:"body,omitempty"`
	Error       string  `json:"error,omitempty"`
	Version     string  `json:"version,omitempty"`
	ResponseTS  string  `json:"response_ts"`
	LoggedAt    string  `json:"logged_at"`
}
