package config

type MongoDB struct {
	URI string `mapstructure:"URI" json:"uri" yaml:"uri"`
	// 附加在 URI 後的查詢參數，例如 retryWrites=true&w=majority
	Options string `mapstructure:"OPTIONS" json:"options" yaml:"options"`
	// 空字串時使用 core.MongoDBCostLens
	Database string `mapstructure:"DATABASE" json:"database" yaml:"database"`
	// 連線與啟動 ping 的逾時秒數，0 表示 10 秒
	ConnectTimeout int `mapstructure:"CONNECT_TIMEOUT" json:"connectTimeout" yaml:"connectTimeout"`
}
