package dto

// IngestQuotaDto 來源 IP 在目前寫入限流視窗的狀態
type IngestQuotaDto struct {
	ClientIP       string `json:"clientIP"`
	Enabled        bool   `json:"enabled"`
	Limit          int    `json:"limit"`
	Used           int    `json:"used"`
	Remaining      int    `json:"remaining"`
	WindowSeconds  int64  `json:"windowSeconds"`
	ResetInSeconds int64  `json:"resetInSeconds"`
}
