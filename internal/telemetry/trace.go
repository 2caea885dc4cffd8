package telemetry

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"

	"costlens/config"
	"costlens/internal/core"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Trace 未啟用時 TracerProvider 為 nil，所有 span 皆為 noop
type Trace struct {
	TracerProvider *sdktrace.TracerProvider
	ServiceName    string
}

func NewTrace(conf *config.Configuration) (*Trace, error) {
	if conf == nil || !conf.Telemetry.Trace.Enabled {
		return &Trace{}, nil
	}
	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpointURL(conf.Telemetry.Trace.EndpointUrl),
		otlptracehttp.WithRetry(otlptracehttp.RetryConfig{
			Enabled:         true,
			InitialInterval: 5 * time.Second,
			MaxInterval:     10 * time.Second,
			MaxElapsedTime:  60 * time.Second, // 超過即丟棄這批 span
		}),
		otlptracehttp.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(samplerFor(conf.Telemetry.Trace.SampleRatio)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(conf.App.Name),
			semconv.ServiceVersion(conf.App.Version),
			attribute.String("deployment.environment.name", conf.App.Env),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return &Trace{TracerProvider: tp, ServiceName: conf.App.Name}, nil
}

// 上游已取樣的 trace 一律沿用；ratio 只決定 root span
func samplerFor(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Shutdown 送出尚未匯出的 span
func (t *Trace) Shutdown(ctx context.Context) error {
	if t == nil || t.TracerProvider == nil {
		return nil
	}
	return t.TracerProvider.Shutdown(ctx)
}

func (t *Trace) tracer() trace.Tracer {
	if t == nil || t.TracerProvider == nil {
		return noop.NewTracerProvider().Tracer("noop")
	}
	return t.TracerProvider.Tracer(t.ServiceName)
}

func (t *Trace) StartSpanForLayer(
	ctx context.Context,
	spanName core.TraceSpanName,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	return t.tracer().Start(ctx, string(spanName), opts...)
}

// WithSpan handler 傳 *gin.Context、service/repository 傳 context.Context；
// 未指定名稱時 handler 用 handler 名稱，其餘用呼叫者的方法名
func (t *Trace) WithSpan(parent interface{}, name ...string) (context.Context, trace.Span, func(error)) {
	override := ""
	if len(name) > 0 {
		override = strings.TrimSpace(name[0])
	}

	var (
		ctx  context.Context
		span trace.Span
	)
	switch p := parent.(type) {
	case *gin.Context:
		spanName := override
		if spanName == "" {
			spanName = spanNameFromGin(p)
		}
		ctx, span = t.StartSpanForLayer(requestContext(p), core.TraceSpanName(spanName))
		p.Set(core.ContextTraceKey, ctx)
	case context.Context:
		spanName := override
		if spanName == "" {
			spanName = prettifyFuncName(callerFuncName(2))
		}
		if spanName == "" {
			spanName = "unknown"
		}
		ctx, span = t.StartSpanForLayer(p, core.TraceSpanName(spanName))
	default:
		if override == "" {
			override = "unknown"
		}
		ctx, span = t.StartSpanForLayer(context.Background(), core.TraceSpanName(override))
	}
	return ctx, span, func(err error) { t.EndSpan(span, err) }
}

// 優先使用 TraceEntry 放進 gin 的 ctx
func requestContext(c *gin.Context) context.Context {
	if v, ok := c.Get(core.ContextTraceKey); ok {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return c.Request.Context()
}

func (t *Trace) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ApplyTraceAttributes 依 `trace:"key[,omitempty]"` 標籤把 meta struct 打進 span
func (t *Trace) ApplyTraceAttributes(span trace.Span, obj interface{}) {
	if span == nil || obj == nil || !span.IsRecording() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			span.RecordError(fmt.Errorf("apply trace attributes: %v", r))
		}
	}()
	if attrs := traceAttributes(obj); len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

func traceAttributes(obj interface{}) []attribute.KeyValue {
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}
	typ := val.Type()

	var attrs []attribute.KeyValue
	for i := 0; i < typ.NumField(); i++ {
		key, omitEmpty := parseTraceTag(typ.Field(i).Tag.Get("trace"))
		field := val.Field(i)
		if !field.CanInterface() {
			continue
		}
		// 無標籤的巢狀 struct 直接攤平
		if key == "" {
			if field.Kind() == reflect.Struct || (field.Kind() == reflect.Ptr && !field.IsNil()) {
				attrs = append(attrs, traceAttributes(field.Interface())...)
			}
			continue
		}
		if omitEmpty && field.IsZero() {
			continue
		}
		attrs = append(attrs, valueAttributes(key, field)...)
	}
	return attrs
}

func valueAttributes(key string, field reflect.Value) []attribute.KeyValue {
	switch field.Kind() {
	case reflect.String:
		return []attribute.KeyValue{attribute.String(key, field.String())}
	case reflect.Bool:
		return []attribute.KeyValue{attribute.Bool(key, field.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []attribute.KeyValue{attribute.Int64(key, field.Int())}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []attribute.KeyValue{attribute.Int64(key, int64(field.Uint()))}
	case reflect.Float32, reflect.Float64:
		return []attribute.KeyValue{attribute.Float64(key, field.Float())}
	case reflect.Slice, reflect.Array:
		if field.Type().Elem().Kind() != reflect.String {
			return nil
		}
		values := make([]string, field.Len())
		for j := range values {
			values[j] = field.Index(j).String()
		}
		return []attribute.KeyValue{attribute.StringSlice(key, values)}
	case reflect.Struct:
		if tm, ok := field.Interface().(time.Time); ok {
			return []attribute.KeyValue{attribute.String(key, tm.UTC().Format(time.RFC3339Nano))}
		}
		return traceAttributes(field.Interface())
	case reflect.Ptr:
		if field.IsNil() {
			return nil
		}
		return valueAttributes(key, field.Elem())
	case reflect.Map:
		if field.Type().Key().Kind() != reflect.String {
			return nil
		}
		var attrs []attribute.KeyValue
		iter := field.MapRange()
		for iter.Next() {
			elem := iter.Value()
			if elem.Kind() == reflect.Interface && !elem.IsNil() {
				elem = elem.Elem()
			}
			switch elem.Kind() {
			case reflect.String, reflect.Bool, reflect.Float32, reflect.Float64,
				reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				attrs = append(attrs, valueAttributes(key+"."+iter.Key().String(), elem)...)
			}
		}
		return attrs
	}
	return nil
}

// parseTraceTag `trace:"name,omitempty"`
func parseTraceTag(raw string) (name string, omitEmpty bool) {
	parts := strings.Split(raw, ",")
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "omitempty" {
			omitEmpty = true
		}
	}
	return strings.TrimSpace(parts[0]), omitEmpty
}

// "costlens/internal/service.(*AnomalyDetector).checkSpikes-fm" -> "AnomalyDetector.checkSpikes"
func prettifyFuncName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	full = strings.TrimSuffix(full, "-fm")
	if i := strings.LastIndex(full, ".func"); i >= 0 {
		full = full[:i]
	}
	if i := strings.Index(full, "."); i >= 0 {
		full = full[i+1:]
	}
	full = strings.NewReplacer("(*", "", "(", "", ")", "").Replace(full)
	if open := strings.Index(full, "["); open >= 0 {
		if closeIdx := strings.Index(full, "]"); closeIdx > open {
			full = full[:open] + full[closeIdx+1:]
		}
	}
	return full
}

func spanNameFromGin(c *gin.Context) string {
	if hn := c.HandlerName(); hn != "" {
		return prettifyFuncName(hn)
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return c.Request.Method + " " + route
}

func callerFuncName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return ""
}
