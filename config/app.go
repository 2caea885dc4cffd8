package config

type App struct {
	// development / test / production
	Env string `mapstructure:"ENV" json:"env" yaml:"env"`
	// HTTP 端口，未設定時 3000
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port"`
	// 同時作為 metric 前綴與 fluentd 的 projectName
	Name           string `mapstructure:"NAME" json:"name" yaml:"name"`
	Version        string `mapstructure:"VERSION" json:"version" yaml:"version"`
	SwaggerEnabled bool   `mapstructure:"SWAGGER_ENABLED" json:"swagger_enabled" yaml:"swagger_enabled"`
}

type Log struct {
	// debug / info / warn / error
	Level string `mapstructure:"LEVEL" json:"level" yaml:"level"`
	// json（預設）或 console
	Format string `mapstructure:"FORMAT" json:"format" yaml:"format"`
}
