package config

import (
	"fmt"
	"reflect"
	"strings"

	"costlens/utils/path"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Source 設定來源；EnvFile 與 YAMLFile 同時給時以 EnvFile 為準
type Source struct {
	BaseDir  string
	EnvFile  string
	YAMLFile string
}

// File 實際讀取的檔案與格式，未指定檔案時為空字串
func (s Source) File() (string, string) {
	switch {
	case s.EnvFile != "":
		return path.Resolve(s.BaseDir, s.EnvFile), "env"
	case s.YAMLFile != "":
		return path.Resolve(s.BaseDir, s.YAMLFile, "conf"), "yaml"
	default:
		return "", ""
	}
}

// Load 環境變數以 "__" 分層（例如 APP__PORT），永遠覆蓋檔案內容
func Load(src Source) (*Configuration, *viper.Viper, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()
	setDefaults(v)

	if file, kind := src.File(); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType(kind)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	bindEnvs(v, reflect.TypeOf(Configuration{}))

	conf := &Configuration{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return conf, v, nil
}

// Watch 設定檔變更時解出一份新的 Configuration 交給 onChange。
// 執行中的服務只採用啟動時的值，傳進 wire 的那份永遠不會被改寫；只有從檔案載入時才有作用
func Watch(v *viper.Viper, onChange func(name string, next *Configuration, err error)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(in fsnotify.Event) {
		next := &Configuration{}
		if err := v.Unmarshal(next); err != nil {
			onChange(in.Name, nil, err)
			return
		}
		onChange(in.Name, next, nil)
	})
	v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP__NAME", "costlens")
	v.SetDefault("APP__PORT", 3000)
	v.SetDefault("LOG__LEVEL", "info")
	v.SetDefault("LOG__FORMAT", "json")
	v.SetDefault("ANALYTICS__ALERT_CHECK_INTERVAL_MS", DefaultAlertCheckIntervalMs)
	v.SetDefault("ANALYTICS__SPIKE_THRESHOLD", DefaultSpikeThreshold)
	v.SetDefault("ANALYTICS__SUGGESTION_DAYS", DefaultSuggestionDays)
}

// bindEnvs 讓 AutomaticEnv 也能填入沒有預設值的巢狀欄位
func bindEnvs(v *viper.Viper, t reflect.Type, prefix ...string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			tag = field.Name
		}
		key := append(prefix[:len(prefix):len(prefix)], tag)

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			bindEnvs(v, ft, key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "__"))
	}
}
