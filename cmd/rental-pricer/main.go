package main

import (
	"fmt"

	"github.com/spf13/viper"
	_ "go.uber.org/automaxprocs"

	"github.com/Meesho/BharatMLStack/rental-pricer/handlers/pricing"
	"github.com/Meesho/BharatMLStack/rental-pricer/internal/server"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/configs"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/logger"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/metrics"
)

var AppConfigs configs.AppConfigs

func main() {
	viper.AutomaticEnv()
	viper.SetConfigName("application") // file name without .env
	viper.SetConfigType("env")         // file type
	viper.AddConfigPath(".")           // directory

	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file found, using environment variables only")
	}
	configs.InitConfig(&AppConfigs)
	logger.InitLogger(&AppConfigs)
	metrics.InitMetrics(&AppConfigs)
	pricing.InitPricingHandler(&AppConfigs)
	server.InitServer(&AppConfigs)
}
