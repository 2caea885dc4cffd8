package config

type Cors struct {
	// 未設定時允許所有來源（不帶 credentials）
	AllowOrigins []string `mapstructure:"ALLOW_ORIGINS" json:"allowOrigins" yaml:"allowOrigins"`
	// preflight 快取秒數，0 表示 12 小時
	MaxAge int `mapstructure:"MAX_AGE" json:"maxAge" yaml:"maxAge"`
}
