package config

type Fluentd struct {
	Enabled bool   `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	Host    string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port    int    `mapstructure:"PORT" json:"port" yaml:"port"`
	// tag 為 <TagPrefix>.<sub tag>，預設 costlens
	TagPrefix string `mapstructure:"TAG_PREFIX" json:"tagPrefix" yaml:"tagPrefix"`
	// 毫秒
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
	// 同步送出，主要給除錯用；預設非同步
	Sync bool `mapstructure:"SYNC" json:"sync" yaml:"sync"`
	// 非同步緩衝筆數，0 使用 fluent-logger 預設值
	BufferLimit int `mapstructure:"BUFFER_LIMIT" json:"bufferLimit" yaml:"bufferLimit"`
}
