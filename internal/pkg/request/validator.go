package request

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	cErr "costlens/internal/pkg/error"

	"github.com/go-playground/validator/v10"
)

// Validator DTO 可提供自訂錯誤訊息，key 為「欄位路徑.規則」，陣列索引寫成 *
// 例如 "Provider.required"、"TierPricing.*.From.min"
type Validator interface {
	GetMessages() ValidatorMessages
}

type ValidatorMessages map[string]string

var indexPattern = regexp.MustCompile(`\[\d+\]`)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// 與 gin binding 相同使用 `binding` tag，批次匯入與 CLI 也共用同一套規則
func defaultValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New()
		structValidator.SetTagName("binding")
	})
	return structValidator
}

// ValidateStruct 驗證失敗時只回傳第一個錯誤
func ValidateStruct(request any) *cErr.Error {
	if err := defaultValidator().Struct(request); err != nil {
		return GetError(request, err)
	}
	return nil
}

func GetError(request any, err error) *cErr.Error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return cErr.ValidateErr("Parameter error")
	}

	fe := fieldErrs[0]
	if custom, ok := request.(Validator); ok {
		if message, exist := custom.GetMessages()[messageKey(fe)]; exist {
			return cErr.ValidateErr(message)
		}
	}
	return cErr.ValidateErr(fe.Error())
}

// messageKey 去掉最外層型別名稱，例如 CreatePricingRuleDto.TierPricing[2].From → TierPricing.*.From.min
func messageKey(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	return indexPattern.ReplaceAllString(ns, ".*") + "." + fe.Tag()
}
