package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - prometheus-метрики движка
type Metrics struct {
	TickDuration     prometheus.Histogram
	Rooms            prometheus.Gauge
	Players          prometheus.Gauge
	Entities         prometheus.Gauge
	PathRequests     prometheus.Counter
	Intents          *prometheus.CounterVec
	HeroSaveFailures prometheus.Counter
}

// NewMetrics создает метрики и регистрирует их в reg.
// nil - глобальный регистр prometheus.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mazmorra",
			Name:      "tick_duration_seconds",
			Help:      "Время обработки одного тика комнаты.",
			Buckets:   []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05},
		}),
		Rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mazmorra",
			Name:      "rooms_active",
			Help:      "Количество запущенных комнат.",
		}),
		Players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mazmorra",
			Name:      "players_online",
			Help:      "Количество игроков во всех комнатах.",
		}),
		Entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mazmorra",
			Name:      "entities_tracked",
			Help:      "Количество сущностей во всех комнатах.",
		}),
		PathRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mazmorra",
			Name:      "path_requests_total",
			Help:      "Запросы поиска пути.",
		}),
		Intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mazmorra",
			Name:      "intents_total",
			Help:      "Обработанные интенты клиентов.",
		}, []string{"action", "result"}),
		HeroSaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mazmorra",
			Name:      "hero_save_failures_total",
			Help:      "Неудачные сохранения героев при выходе.",
		}),
	}

	reg.MustRegister(m.TickDuration, m.Rooms, m.Players, m.Entities, m.PathRequests, m.Intents, m.HeroSaveFailures)
	return m
}
