package notifier

import (
	"context"
	"sync"

	"github.com/grzeniux/pricewatch/logger"
	"github.com/grzeniux/pricewatch/metrics"
	"github.com/rs/zerolog"
)

// Service delivers a message to one destination channel.
type Service interface {
	Name() string
	SendNotification(ctx context.Context, message string) error
}

// MultiNotifier delivers every message to all of its services. Delivery
// failures are logged and never reach the caller.
type MultiNotifier struct {
	services []Service
	log      zerolog.Logger
}

func NewMultiNotifier(services []Service) *MultiNotifier {
	return &MultiNotifier{
		services: services,
		log:      logger.WithComponent("notifier"),
	}
}

func (m *MultiNotifier) Notify(ctx context.Context, message string) {
	var wg sync.WaitGroup

	for _, service := range m.services {
		wg.Add(1)
		go func(s Service) {
			defer wg.Done()
			if err := s.SendNotification(ctx, message); err != nil {
				metrics.NotificationsTotal.WithLabelValues(s.Name(), "failed").Inc()
				m.log.Error().Err(err).Str("channel", s.Name()).Msg("Failed to send alert")
				return
			}
			metrics.NotificationsTotal.WithLabelValues(s.Name(), "sent").Inc()
			m.log.Info().Str("channel", s.Name()).Msg("Alert sent successfully")
		}(service)
	}

	wg.Wait()
}
