package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Metrics содержит все метрики приложения
type Metrics struct {
	logger *zap.Logger

	// Счетчики
	synthRequests *prometheus.CounterVec
	apiRetries    *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec

	// Гистограммы
	synthDuration prometheus.Histogram

	// Gauge метрики
	voicesAvailable prometheus.Gauge
}

// New создает новый экземпляр метрик
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger: logger,

		// Счетчик запросов на синтез
		synthRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synth_requests_total",
				Help: "Общее количество запросов на синтез речи",
			},
			[]string{"status"}, // success, invalid_input, unavailable
		),

		// Счетчик попыток запросов к ElevenLabs
		apiRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speech_api_retries_total",
				Help: "Количество неудачных попыток запросов к сервису синтеза",
			},
			[]string{"operation", "class"}, // get_voices, synthesize; rate_limited, server_error, client_error, transport
		),

		// Счетчик обращений к кешу каталога голосов
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voices_cache_total",
				Help: "Обращения к кешу каталога голосов",
			},
			[]string{"result"}, // hit, miss
		),

		// Гистограмма времени синтеза
		synthDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "synth_duration_seconds",
				Help:    "Время синтеза речи в секундах",
				Buckets: prometheus.DefBuckets,
			},
		),

		// Gauge количества доступных голосов
		voicesAvailable: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "voices_available",
				Help: "Количество голосов в последнем загруженном каталоге",
			},
		),
	}

	// Регистрируем все метрики
	prometheus.MustRegister(
		m.synthRequests,
		m.apiRetries,
		m.cacheLookups,
		m.synthDuration,
		m.voicesAvailable,
	)

	logger.Info("метрики инициализированы")

	return m
}

// RecordSynthRequest записывает результат запроса на синтез
func (m *Metrics) RecordSynthRequest(status string, seconds float64) {
	m.synthRequests.WithLabelValues(status).Inc()
	if status == "success" {
		m.synthDuration.Observe(seconds)
	}
}

// RecordRetryAttempt записывает неудачную попытку запроса к сервису синтеза
func (m *Metrics) RecordRetryAttempt(operation, class string) {
	m.apiRetries.WithLabelValues(operation, class).Inc()
}

// RecordCacheLookup записывает обращение к кешу каталога голосов
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// SetVoicesAvailable устанавливает количество доступных голосов
func (m *Metrics) SetVoicesAvailable(count int) {
	m.voicesAvailable.Set(float64(count))
}
