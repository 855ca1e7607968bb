package configs

type Configs struct {
	ApplicationEnv      string `mapstructure:"app_env"`
	ApplicationLogLevel string `mapstructure:"app_log_level"`
	ApplicationName     string `mapstructure:"app_name"`
	ApplicationPort     int    `mapstructure:"app_port"`
	AppGcPercentage     int    `mapstructure:"app_gc_percentage"`

	//model-artifact-config
	ModelArtifactPath     string `mapstructure:"model_artifactPath"`
	ModelChecksumRequired bool   `mapstructure:"model_checksumRequired"`

	//prediction-cache-config
	PredictionCacheEnabled     bool   `mapstructure:"predictionCache_enabled"`
	PredictionCacheSizeInBytes int    `mapstructure:"predictionCache_sizeInBytes"`
	PredictionCacheTTLSec      int    `mapstructure:"predictionCache_ttlSec"`

	//telegraf-config
	MetricsSamplingRate string `mapstructure:"metrics_sampling_rate"`
	Telegraf_Host       string `mapstructure:"telegraf_host"`
	Telegraf_Port       string `mapstructure:"telegraf_port"`
}

type DynamicConfigs struct {
}

type AppConfigs struct {
	Configs        Configs
	DynamicConfigs DynamicConfigs
}

func (a *AppConfigs) GetStaticConfig() interface{} {
	return &a.Configs
}

func (a *AppConfigs) GetDynamicConfig() interface{} {
	return &a.Configs
}
