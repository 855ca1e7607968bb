package inmemorycache

import (
	"runtime/debug"
	"time"

	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/configs"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/metrics"
	"github.com/coocood/freecache"
	"github.com/rs/zerolog/log"
)

const (
	metricUpdateInterval = 1 * time.Minute
	infiniteExpiry       = -1

	inMemoryCacheV1Name = "prediction_cache_v1"
)

var instance InMemoryCache

type V1 struct {
	cacheName  string
	inMemCache *freecache.Cache
}

// Init initializes the in-memory cache, to be called from main.go
func Init(appConfigs *configs.AppConfigs) {
	once.Do(func() {
		instance = newV1InMemoryCache(inMemoryCacheV1Name, appConfigs)
	})
}

// Instance returns the in-memory cache instance. Ensure that Init
// is called before calling this function
func Instance() InMemoryCache {
	if instance == nil {
		log.Panic().Msg("in-memory-cache not initialized, call Init first")
	}
	return instance
}

func newV1InMemoryCache(cName string, appConfigs *configs.AppConfigs) *V1 {
	sizeInBytes := appConfigs.Configs.PredictionCacheSizeInBytes
	if sizeInBytes <= 0 {
		log.Panic().Msgf("invalid prediction cache size %d", sizeInBytes)
	}

	v1InMemoryCache := &V1{
		cacheName:  cName,
		inMemCache: freecache.NewCache(sizeInBytes),
	}
	if gcPercentage := appConfigs.Configs.AppGcPercentage; gcPercentage != -1 {
		debug.SetGCPercent(gcPercentage)
	}
	go v1InMemoryCache.publishMetric()
	return v1InMemoryCache
}

func (imc *V1) Get(key []byte) ([]byte, error) {
	return imc.inMemCache.Get(key)
}

func (imc *V1) Set(key, value []byte) error {
	return imc.inMemCache.Set(key, value, infiniteExpiry)
}

func (imc *V1) SetEx(key, value []byte, expiryInSec int) error {
	return imc.inMemCache.Set(key, value, expiryInSec)
}

func (imc *V1) Delete(key []byte) bool {
	return imc.inMemCache.Del(key)
}

// publishMetric publishes the in-memory cache metrics every 1 min, configured by metricUpdateInterval
func (imc *V1) publishMetric() {
	ticker := time.NewTicker(metricUpdateInterval)
	cacheMetricTags := []string{"cache_name:" + imc.cacheName}
	defer ticker.Stop()
	for range ticker.C {
		metrics.Gauge(HitRate, imc.inMemCache.HitRate(), cacheMetricTags)
		metrics.Gauge(ItemCount, float64(imc.inMemCache.EntryCount()), cacheMetricTags)
		metrics.Gauge(EvacuateCount, float64(imc.inMemCache.EvacuateCount()), cacheMetricTags)
		metrics.Gauge(ExpiryCount, float64(imc.inMemCache.ExpiredCount()), cacheMetricTags)
	}
}
