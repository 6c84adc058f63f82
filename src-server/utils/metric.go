package utils

type Metric struct {
	DatabaseRead                  chan float64
	DatabaseWrite                 chan float64
	DatabaseReadForAuthMiddleware chan float64
	EventCreated                  chan struct{}
	EventUpdated                  chan struct{}
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:                  make(chan float64),
		DatabaseWrite:                 make(chan float64),
		DatabaseReadForAuthMiddleware: make(chan float64),
		EventCreated:                  make(chan struct{}),
		EventUpdated:                  make(chan struct{}),
	}
}
