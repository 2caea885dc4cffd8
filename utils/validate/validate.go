package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"costlens/internal/core"
	cErr "costlens/internal/pkg/error"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidationErrorResponse 每個失敗欄位一行：json 路徑、型別、失敗規則與完整規則
func ValidationErrorResponse(obj any, err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		var b strings.Builder
		b.WriteString("Validation error:\n")
		for _, fe := range fieldErrs {
			name, kind, rules := describeField(reflect.TypeOf(obj), fe.StructNamespace())
			fmt.Fprintf(&b, " - Field %q (type: %s) failed the '%s' validation (rules: %v)\n", name, kind, fe.Tag(), rules)
		}
		return b.String()
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("Validation error: field %q expects %s but got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("Validation error: malformed JSON at offset %d", syntaxErr.Offset)
	}
	return "Validation error: " + err.Error()
}

// describeField 依 StructNamespace（例如 CreatePricingDto.Tiers[1].UpTo）走訪巢狀欄位
func describeField(t reflect.Type, namespace string) (name string, kind string, rules []string) {
	segments := strings.Split(namespace, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}
	jsonPath := make([]string, 0, len(segments))
	for _, seg := range segments {
		field, index, _ := strings.Cut(seg, "[")
		t = indirect(t)
		if t.Kind() != reflect.Struct {
			return strings.Join(segments, "."), "", nil
		}
		f, ok := t.FieldByName(field)
		if !ok {
			return strings.Join(segments, "."), "", nil
		}
		seg = jsonName(f)
		if index != "" {
			seg += "[" + index
		}
		jsonPath = append(jsonPath, seg)

		t = f.Type
		kind = t.String()
		rules = nil
		if tag := f.Tag.Get("binding"); tag != "" {
			rules = strings.Split(tag, ",")
		}
		if index != "" {
			t = indirect(t).Elem()
		}
	}
	return strings.Join(jsonPath, "."), kind, rules
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func jsonName(f reflect.StructField) string {
	if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" {
		return tag
	}
	return f.Name
}

func ParseObjectID(c *gin.Context, key string) (id primitive.ObjectID, cause error, responseErr error) {
	id, err := primitive.ObjectIDFromHex(c.Param(key))
	if err != nil {
		return primitive.NilObjectID, err, cErr.ValidatePathParamsErr("invalid " + key)
	}
	return id, nil, nil
}

func BindAndValidate(c *gin.Context, req any) (cause error, responseErr error) {
	if err := c.ShouldBindJSON(req); err != nil {
		return err, cErr.ValidateErr(ValidationErrorResponse(req, err))
	}
	return nil, nil
}

func BindQueryAndValidate(c *gin.Context, req any) (cause error, responseErr error) {
	if err := c.ShouldBindQuery(req); err != nil {
		return err, cErr.ValidateErr(ValidationErrorResponse(req, err))
	}
	return nil, nil
}

// ParseTime 接受 RFC3339 或 YYYY-MM-DD（視為 UTC 零點）
func ParseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expect RFC3339 or YYYY-MM-DD", v)
	}
	return t, nil
}

// GetBoolQuery 未帶參數時回傳 nil
func GetBoolQuery(c *gin.Context, key string) (*bool, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

var validSuggestionTypes = []core.SuggestionType{
	core.SuggestionCaching,
	core.SuggestionRateLimiting,
	core.SuggestionBatching,
	core.SuggestionDuplicateRemoval,
	core.SuggestionPerformance,
}

func IsValidSuggestionType(suggestionType string) bool {
	return slices.Contains(validSuggestionTypes, core.SuggestionType(suggestionType))
}
