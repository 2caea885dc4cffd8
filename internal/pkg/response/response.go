package response

import (
	"net/http"

	cErr "costlens/internal/pkg/error"

	"github.com/gin-gonic/gin"
)

// Response 所有 /api 回應的外層；成功時 code 為 0、message 為 "OK"
type Response struct {
	RequestID   string `json:"requestID"`
	Code        int    `json:"code"`
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// handler 與 Response middleware 之間傳遞資料的 gin.Context keys
const (
	dataKey    = "data"
	messageKey = "message"
)

const (
	successMessage = "Request Success"
	createdMessage = "Create Success"
)

// gin.H 裡的 "message" 會被取出當作 description
func messageFrom(data any, fallback string) string {
	msg, ok := data.(gin.H)
	if !ok {
		return fallback
	}
	if s, ok := msg[messageKey].(string); ok && s != "" {
		delete(msg, messageKey)
		return s
	}
	return fallback
}

func Create(c *gin.Context, data any) {
	c.Set(dataKey, data)
	c.Set(messageKey, messageFrom(data, createdMessage))
	c.Status(http.StatusCreated)
	c.Abort()
}

func Success(c *gin.Context, data any) {
	c.Set(dataKey, data)
	c.Set(messageKey, messageFrom(data, successMessage))
	c.Abort()
}

// Payload 取出 handler 設定的資料；沒有資料時回傳空物件
func Payload(c *gin.Context) (data any, description string) {
	data, _ = c.Get(dataKey)
	if data == nil {
		data = map[string]any{}
	}
	description = c.GetString(messageKey)
	if description == "" {
		description = successMessage
	}
	return data, description
}

func OK(requestID string, data any, description string) Response {
	return Response{
		RequestID:   requestID,
		Code:        cErr.SUCCESS,
		Data:        data,
		Message:     "OK",
		Description: description,
	}
}

func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func Fail(c *gin.Context, requestID string, httpCode int, errorCode int, msg string, desc string) {
	c.JSON(httpCode, Response{
		RequestID:   requestID,
		Code:        errorCode,
		Message:     msg,
		Description: desc,
	})
	c.Abort()
}

// FailByErr 非 *cErr.Error 一律回 500
func FailByErr(c *gin.Context, requestID string, err error) {
	appErr := cErr.From(err)
	Fail(c, requestID, appErr.HttpCode(), appErr.ErrorCode(), appErr.Error(), appErr.ErrorDesc())
}
