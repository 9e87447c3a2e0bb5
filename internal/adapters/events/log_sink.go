package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/usecase"
)

// LogSink writes one structured line per bus event. It never fails, so it is
// safe to register first.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Handle(_ context.Context, event usecase.Event) error {
	entry := s.log.Info().Str("event", event.EventName())

	switch e := event.(type) {
	case usecase.CompanyUpdated:
		entry = entry.Int64("company_id", e.Company.ID).Int64("actor_id", e.Actor.ID).Int("changes", len(e.Changes))
	case usecase.SupplyContractCreated:
		entry = entry.Int64("application_id", e.Application.ID).Int64("actor_id", e.Actor.ID)
	case usecase.SupplyContractUpdated:
		entry = entry.Int64("application_id", e.Application.ID).Int64("actor_id", e.Actor.ID).Int("changes", len(e.Changes))
	case usecase.SupplyContractDeleted:
		entry = entry.Int64("application_id", e.Application.ID).Int64("actor_id", e.Actor.ID)
	case usecase.ShipmentContractCreated:
		entry = entry.Int64("application_id", e.Application.ID).Int64("actor_id", e.Actor.ID)
	case usecase.ShipmentContractUpdated:
		entry = entry.Int64("application_id", e.Application.ID).Int64("actor_id", e.Actor.ID).Int("changes", len(e.Changes))
	case usecase.ShipmentContractDeleted:
		entry = entry.Int64("application_id", e.Application.ID).Int64("actor_id", e.Actor.ID)
	case usecase.DealCreated:
		entry = entry.Int64("deal_id", e.Deal.ID).Str("deal_number", e.Deal.DealNumber).Int64("actor_id", e.Actor.ID)
	case usecase.DealUpdated:
		entry = entry.Int64("deal_id", e.Deal.ID).Int64("actor_id", e.Actor.ID).Int("changes", len(e.Changes))
	case usecase.UserLoggedIn:
		entry = entry.Int64("user_id", e.User.ID)
	case usecase.UserLoggedOut:
		entry = entry.Int64("user_id", e.User.ID)
	}

	entry.Msg("event")
	return nil
}
