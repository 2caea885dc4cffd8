package error

// 業務錯誤碼：前三碼對應 HTTP 狀態，後兩碼為流水號
const (
	SUCCESS = 0

	// 400
	BAD_REQUEST_BODY      = 40000 // 請求 body 驗證失敗
	BAD_REQUEST_PARAMS    = 40001 // query / path 參數不合法
	INVALID_PRICING_TIERS = 40003 // 階梯定價區間不合法
	EMPTY_BATCH           = 40004 // 批次內容為空

	// 401 / 403，目前沒有驗證機制，只給狀態碼對應使用
	UNAUTHORIZED = 40100
	FORBIDDEN    = 40300

	NOT_FOUND              = 40400
	CONFLICT               = 40900 // 價目或預算重覆
	PAYLOAD_TOO_LARGE      = 41300 // 解壓後超過上限
	UNSUPPORTED_MEDIA_TYPE = 41500 // 不支援的 Content-Encoding
	RATE_LIMIT_EXCEEDED    = 42900 // ingest 限流

	// 500
	INTERNAL_ERROR      = 50000
	DATABASE_ERROR      = 50001 // store 層失敗
	SERVICE_UNAVAILABLE = 50300
	GATEWAY_TIMEOUT     = 50400
)
