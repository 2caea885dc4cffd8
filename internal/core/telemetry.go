package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest          TraceSpanName = "http_request"
	SpanLoggerMiddleware     TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware   TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware       TraceSpanName = "cors_middleware"
	SpanResponseMiddleware   TraceSpanName = "response_middleware"
	SpanRateLimitMiddleware  TraceSpanName = "ratelimit_middleware"
	SpanDecompressMiddleware TraceSpanName = "decompress_middleware"
	SpanAnomalyCronJob       TraceSpanName = "cron_anomaly_checks"
	SpanBudgetCronJob        TraceSpanName = "cron_budget_recompute"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal      MetricName = "requests_total"
	MetricHttpRequestDuration    MetricName = "request_duration_seconds"
	MetricEventsLoggedTotal      MetricName = "events_logged_total"
	MetricEventCostTotal         MetricName = "event_cost_total"
	MetricAlertsCreatedTotal     MetricName = "alerts_created_total"
	MetricAnalyticsFailuresTotal MetricName = "analytics_failures_total"
	MetricRateLimitTotal         MetricName = "rate_limited_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelProvider MetricLabelName = "provider"
	MetricLabelMode     MetricLabelName = "mode"
	MetricLabelType     MetricLabelName = "type"
	MetricLabelSeverity MetricLabelName = "severity"
	MetricLabelCheck    MetricLabelName = "check"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
	Provider   string            `trace:"ingest.provider,omitempty"`
	BatchSize  int               `trace:"ingest.batch_size,omitempty"`
}

// 供 Redis 寫入限流 Consume / Usage / Clear 使用
type TraceRateLimitMeta struct {
	Subject   string `trace:"rl.subject"`
	Limit     int    `trace:"rl.limit_count,omitempty"`
	WindowSec int64  `trace:"rl.window_sec,omitempty"`
	Used      int    `trace:"rl.used,omitempty"`
	Remaining int    `trace:"rl.remaining,omitempty"`
	TTL       int64  `trace:"rl.ttl_sec,omitempty"`
	Op        string `trace:"rl.op"` // "consume" / "usage" / "clear"
}

// 壓縮 body 解開結果
type TraceDecompressMeta struct {
	Encoding     string `trace:"http.request.content_encoding"`
	EncodedBytes int64  `trace:"http.request.encoded_bytes,omitempty"`
	DecodedBytes int    `trace:"http.request.decoded_bytes"`
}

type TraceRateLimitMiddlewareMeta struct {
	Subject     string `trace:"ratelimit.subject"`
	ConfigLimit int    `trace:"ratelimit.config.limit"`
	Remaining   int    `trace:"ratelimit.remaining"`
	TTLSeconds  int64  `trace:"ratelimit.ttl_sec"`
	Blocked     bool   `trace:"ratelimit.blocked"`
	Degraded    bool   `trace:"ratelimit.degraded"`
}

// 成本計算
type TraceCostQuoteMeta struct {
	Provider      string  `trace:"cost.provider"`
	RequestCount  int64   `trace:"cost.request_count"`
	InputTokens   int64   `trace:"cost.input_tokens"`
	OutputTokens  int64   `trace:"cost.output_tokens"`
	MonthUsage    int64   `trace:"cost.month_usage"`
	RemainingFree int64   `trace:"cost.remaining_free"`
	Billable      int64   `trace:"cost.billable"`
	Mode          string  `trace:"cost.mode"`
	Cost          float64 `trace:"cost.amount"`
}

// 事件彙總查詢
type TraceAggregateMeta struct {
	Op       string   `trace:"aggregate.op"`
	From     string   `trace:"aggregate.from,omitempty"`
	To       string   `trace:"aggregate.to,omitempty"`
	Provider string   `trace:"aggregate.provider,omitempty"`
	Feature  string   `trace:"aggregate.feature,omitempty"`
	Status   string   `trace:"aggregate.status,omitempty"`
	GroupBy  []string `trace:"aggregate.group_by,omitempty"`
	Bucket   string   `trace:"aggregate.bucket,omitempty"`
	Rows     int      `trace:"aggregate.rows"`
}

// 異常偵測一輪的結果
type TraceAnomalyRunMeta struct {
	Now          string `trace:"anomaly.now"`
	SpikeAlerts  int    `trace:"anomaly.spike_alerts"`
	BudgetAlerts int    `trace:"anomaly.budget_alerts"`
	ErrorAlerts  int    `trace:"anomaly.error_alerts"`
	Total        int    `trace:"anomaly.total"`
}

type TraceSuggestionMeta struct {
	Days   int    `trace:"suggestion.days"`
	Type   string `trace:"suggestion.type,omitempty"`
	Total  int    `trace:"suggestion.total"`
	High   int    `trace:"suggestion.high"`
	Medium int    `trace:"suggestion.medium"`
	Low    int    `trace:"suggestion.low"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data_preview"`
}
type TraceHttpServerMeta struct {
	// request side
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanKind          string `trace:"span.kind"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}
