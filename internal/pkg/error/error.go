package error

import (
	"errors"
	"net/http"
)

// Error 對外錯誤：HTTP 狀態、業務錯誤碼、錯誤類別與說明
type Error struct {
	httpCode  int
	errorCode int
	errorMsg  string
	errorDesc string
}

func New(httpCode, errorCode int, errorMsg string, errorDesc string) *Error {
	return &Error{
		httpCode:  httpCode,
		errorCode: errorCode,
		errorMsg:  errorMsg,
		errorDesc: errorDesc,
	}
}

// As 沿著 wrap 鏈找出 *Error
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// From 非 *Error 一律視為 500
func From(err error) *Error {
	if appErr, ok := As(err); ok {
		return appErr
	}
	return InternalServer(err.Error())
}

func ValidateErr(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_BODY, "bad-request/body", errorDesc)
}

func ValidatePathParamsErr(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_PARAMS, "bad-request/params", errorDesc)
}

func BadRequestParams(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_PARAMS, "bad-request/params", errorDesc)
}

func InvalidPricingTiers(errorDesc string) *Error {
	return New(http.StatusBadRequest, INVALID_PRICING_TIERS, "bad-request/pricing-tiers", errorDesc)
}

func EmptyBatch(errorDesc string) *Error {
	return New(http.StatusBadRequest, EMPTY_BATCH, "bad-request/empty-batch", errorDesc)
}

func NotFound(errorDesc string) *Error {
	return New(http.StatusNotFound, NOT_FOUND, "not-found", errorDesc)
}

func Conflict(errorDesc string) *Error {
	return New(http.StatusConflict, CONFLICT, "conflict", errorDesc)
}

func PayloadTooLarge(errorDesc string) *Error {
	return New(http.StatusRequestEntityTooLarge, PAYLOAD_TOO_LARGE, "payload-too-large", errorDesc)
}

func UnsupportedMediaType(errorDesc string) *Error {
	return New(http.StatusUnsupportedMediaType, UNSUPPORTED_MEDIA_TYPE, "unsupported-media-type", errorDesc)
}

func RateLimitExceeded(errorDesc string) *Error {
	return New(http.StatusTooManyRequests, RATE_LIMIT_EXCEEDED, "rate-limit-exceeded", errorDesc)
}

func InternalServer(errorDesc string) *Error {
	return New(http.StatusInternalServerError, INTERNAL_ERROR, "internal-server-error", errorDesc)
}

func DatabaseError(errorDesc string) *Error {
	return New(http.StatusInternalServerError, DATABASE_ERROR, "database-error", errorDesc)
}

func (e *Error) HttpCode() int {
	return e.httpCode
}

func (e *Error) ErrorCode() int {
	return e.errorCode
}

func (e *Error) ErrorDesc() string {
	return e.errorDesc
}

func (e *Error) Error() string {
	return e.errorMsg
}

// handler 直接寫出錯誤狀態碼（未附 *Error）時的對應
var statusErrors = map[int]struct {
	code int
	msg  string
}{
	http.StatusBadRequest:            {BAD_REQUEST_BODY, "bad-request"},
	http.StatusUnauthorized:          {UNAUTHORIZED, "unauthorized"},
	http.StatusForbidden:             {FORBIDDEN, "forbidden"},
	http.StatusNotFound:              {NOT_FOUND, "not-found"},
	http.StatusConflict:              {CONFLICT, "conflict"},
	http.StatusRequestEntityTooLarge: {PAYLOAD_TOO_LARGE, "payload-too-large"},
	http.StatusUnsupportedMediaType:  {UNSUPPORTED_MEDIA_TYPE, "unsupported-media-type"},
	http.StatusTooManyRequests:       {RATE_LIMIT_EXCEEDED, "rate-limit-exceeded"},
	http.StatusServiceUnavailable:    {SERVICE_UNAVAILABLE, "service-unavailable"},
	http.StatusGatewayTimeout:        {GATEWAY_TIMEOUT, "gateway-timeout"},
	http.StatusInternalServerError:   {INTERNAL_ERROR, "internal-server-error"},
}

func MapHttpStatusToError(status int, desc string) *Error {
	if known, ok := statusErrors[status]; ok {
		return New(status, known.code, known.msg, desc)
	}
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return New(status, BAD_REQUEST_PARAMS, "bad-request", desc)
	}
	return InternalServer(desc)
}
