package configs

import (
	"log"

	"github.com/spf13/viper"
)

func InitConfig(appConfigs *AppConfigs) {
	staticConfig := appConfigs.GetStaticConfig()
	cfg, ok := staticConfig.(*Configs)
	if !ok {
		log.Fatal("Failed to cast static config to *Configs")
	}

	setDefaults()

	// Manually bind environment variables to mapstructure keys
	// This ensures proper mapping from env vars to struct fields
	bindEnvVars()

	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("Failed to unmarshal config from environment: %v", err)
	}

	log.Println("Configuration loaded from environment variables")
}

func setDefaults() {
	viper.SetDefault("app_env", "dev")
	viper.SetDefault("app_log_level", "INFO")
	viper.SetDefault("app_name", "rental-pricer")
	viper.SetDefault("app_port", 8001)
	viper.SetDefault("app_gc_percentage", -1)

	viper.SetDefault("model_artifactPath", "model/model.json")
	viper.SetDefault("model_checksumRequired", true)

	viper.SetDefault("predictionCache_enabled", false)
	viper.SetDefault("predictionCache_sizeInBytes", 32*1024*1024)
	viper.SetDefault("predictionCache_ttlSec", 0)

	viper.SetDefault("metrics_sampling_rate", "1.0")
	viper.SetDefault("telegraf_host", "localhost")
	viper.SetDefault("telegraf_port", "8125")
}

func bindEnvVars() {
	// Application config
	viper.BindEnv("app_env", "APP_ENV")
	viper.BindEnv("app_log_level", "APP_LOG_LEVEL")
	viper.BindEnv("app_name", "APP_NAME")
	viper.BindEnv("app_port", "APP_PORT")
	viper.BindEnv("app_gc_percentage", "APP_GC_PERCENTAGE")

	// Model artifact config
	viper.BindEnv("model_artifactPath", "MODEL_ARTIFACT_PATH")
	viper.BindEnv("model_checksumRequired", "MODEL_CHECKSUM_REQUIRED")

	// Prediction cache config
	viper.BindEnv("predictionCache_enabled", "PREDICTION_CACHE_ENABLED")
	viper.BindEnv("predictionCache_sizeInBytes", "PREDICTION_CACHE_SIZE_IN_BYTES")
	viper.BindEnv("predictionCache_ttlSec", "PREDICTION_CACHE_TTL_SEC")

	// Metrics / Telegraf config
	viper.BindEnv("metrics_sampling_rate", "METRIC_SAMPLING_RATE")
	viper.BindEnv("telegraf_host", "TELEGRAF_HOST")
	viper.BindEnv("telegraf_port", "TELEGRAF_PORT")
}
