package metric

import (
	"log/slog"
	"time"

	"eventbr/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventbr_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register eventbr_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("eventbr_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("eventbr_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("eventbr_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func gaugeFromChan(as *utils.AppState, name string, help string, samples chan float64) {
	gauge := promauto.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
	good := true
	if err := prometheus.Register(gauge); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register metric", "name", name, "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("metric registered", "name", name)
		gauge.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(gauge) {
				case true:
					slog.Debug("metric unregistered", "name", name)
				case false:
					slog.Warn("metric not registered", "name", name)
				}
				return
			case sample := <-samples:
				gauge.Set(sample)
			}
		}
	}()
}

func counterFromChan(as *utils.AppState, name string, help string, ticks chan struct{}) {
	counter := promauto.NewCounter(prometheus.CounterOpts{
		Name: name,
		Help: help,
	})
	good := true
	if err := prometheus.Register(counter); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register metric", "name", name, "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("metric registered", "name", name)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(counter) {
				case true:
					slog.Debug("metric unregistered", "name", name)
				case false:
					slog.Warn("metric not registered", "name", name)
				}
				return
			case <-ticks:
				counter.Inc()
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := time.Minute
	databaseEmptyRead(as, &tickerInterval)

	gaugeFromChan(as,
		"eventbr_database_read_microsec",
		"The latency of a database read in microseconds",
		as.MetricChans.DatabaseRead)
	gaugeFromChan(as,
		"eventbr_database_write_microsec",
		"The latency of a database write in microseconds",
		as.MetricChans.DatabaseWrite)
	gaugeFromChan(as,
		"eventbr_database_read_auth_middleware_microsec",
		"The latency of the session lookup in the auth middleware in microseconds",
		as.MetricChans.DatabaseReadForAuthMiddleware)

	counterFromChan(as,
		"eventbr_events_created_total",
		"How many events were created since the process started",
		as.MetricChans.EventCreated)
	counterFromChan(as,
		"eventbr_events_updated_total",
		"How many events were updated since the process started",
		as.MetricChans.EventUpdated)
}
