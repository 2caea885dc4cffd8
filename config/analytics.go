package config

import "time"

const (
	DefaultAlertCheckIntervalMs = 300000
	DefaultSpikeThreshold       = 3.0
	DefaultSuggestionDays       = 7
	DefaultIngestWindowSeconds  = 60
	DefaultIngestMaxBodyBytes   = 10 << 20
)

type Analytics struct {
	// 異常偵測排程間隔（毫秒）
	AlertCheckIntervalMs int64 `mapstructure:"ALERT_CHECK_INTERVAL_MS" json:"alertCheckIntervalMs" yaml:"alertCheckIntervalMs"`
	// 當前小時 / 前 23 小時平均 的倍數門檻
	SpikeThreshold float64 `mapstructure:"SPIKE_THRESHOLD" json:"spikeThreshold" yaml:"spikeThreshold"`
	// cron 表達式（含秒），空字串表示不排程
	BudgetRecomputeSpec string `mapstructure:"BUDGET_RECOMPUTE_SPEC" json:"budgetRecomputeSpec" yaml:"budgetRecomputeSpec"`
	SuggestionDays      int    `mapstructure:"SUGGESTION_DAYS" json:"suggestionDays" yaml:"suggestionDays"`
}

func (a Analytics) AlertCheckInterval() time.Duration {
	if a.AlertCheckIntervalMs <= 0 {
		return DefaultAlertCheckIntervalMs * time.Millisecond
	}
	return time.Duration(a.AlertCheckIntervalMs) * time.Millisecond
}

func (a Analytics) SpikeThresholdOrDefault() float64 {
	if a.SpikeThreshold <= 0 {
		return DefaultSpikeThreshold
	}
	return a.SpikeThreshold
}

func (a Analytics) SuggestionDaysOrDefault() int {
	if a.SuggestionDays <= 0 {
		return DefaultSuggestionDays
	}
	return a.SuggestionDays
}

type Ingest struct {
	// 每個來源 IP 在視窗內可寫入的次數，0 表示不限
	RateLimit     int   `mapstructure:"RATE_LIMIT" json:"rateLimit" yaml:"rateLimit"`
	WindowSeconds int64 `mapstructure:"WINDOW_SECONDS" json:"windowSeconds" yaml:"windowSeconds"`
	// 壓縮 body 解開後的上限（bytes）
	MaxBodyBytes int64 `mapstructure:"MAX_BODY_BYTES" json:"maxBodyBytes" yaml:"maxBodyBytes"`
}

func (i Ingest) WindowOrDefault() int64 {
	if i.WindowSeconds <= 0 {
		return DefaultIngestWindowSeconds
	}
	return i.WindowSeconds
}

func (i Ingest) MaxBodyBytesOrDefault() int64 {
	if i.MaxBodyBytes <= 0 {
		return DefaultIngestMaxBodyBytes
	}
	return i.MaxBodyBytes
}
