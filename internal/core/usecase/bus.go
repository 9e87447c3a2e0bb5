package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

// Event is one of the fixed set of bus events, one type per
// (entity kind, lifecycle action) pair plus the login observation pair.
type Event interface {
	EventName() string
}

type CompanyUpdated struct {
	Company domain.Company
	Actor   domain.Actor
	Changes []string
}

func (CompanyUpdated) EventName() string { return "company.updated" }

type SupplyContractCreated struct {
	Application domain.RecyclablesApplication
	Material    domain.Recyclables
	CompanyName string
	Actor       domain.Actor
	Origin      domain.ChangeOrigin
}

func (SupplyContractCreated) EventName() string { return "supply_contract.created" }

type SupplyContractUpdated struct {
	Application domain.RecyclablesApplication
	CompanyName string
	Actor       domain.Actor
	Origin      domain.ChangeOrigin
	Changes     []string
}

func (SupplyContractUpdated) EventName() string { return "supply_contract.updated" }

type SupplyContractDeleted struct {
	Application domain.RecyclablesApplication
	Actor       domain.Actor
}

func (SupplyContractDeleted) EventName() string { return "supply_contract.deleted" }

type ShipmentContractCreated struct {
	Application domain.RecyclablesApplication
	Material    domain.Recyclables
	CompanyName string
	Actor       domain.Actor
}

func (ShipmentContractCreated) EventName() string { return "shipment_contract.created" }

type ShipmentContractUpdated struct {
	Application domain.RecyclablesApplication
	CompanyName string
	Actor       domain.Actor
	Changes     []string
}

func (ShipmentContractUpdated) EventName() string { return "shipment_contract.updated" }

type ShipmentContractDeleted struct {
	Application domain.RecyclablesApplication
	Actor       domain.Actor
}

func (ShipmentContractDeleted) EventName() string { return "shipment_contract.deleted" }

type DealCreated struct {
	Deal  domain.RecyclablesDeal
	Actor domain.Actor
}

func (DealCreated) EventName() string { return "deal.created" }

type DealUpdated struct {
	Deal    domain.RecyclablesDeal
	Actor   domain.Actor
	Changes []string
}

func (DealUpdated) EventName() string { return "deal.updated" }

type UserLoggedIn struct {
	User domain.User
}

func (UserLoggedIn) EventName() string { return "user.logged_in" }

type UserLoggedOut struct {
	User domain.User
}

func (UserLoggedOut) EventName() string { return "user.logged_out" }

// Handler consumes bus events. Handlers must tolerate event types they do
// not care about.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus dispatches events synchronously to handlers registered at process
// start, in registration order, within the caller's call stack. Handler
// errors are collected and logged, never propagated: a failed audit write
// must not roll back the business mutation that triggered it, and it is not
// retried.
type Bus struct {
	log      zerolog.Logger
	handlers []Handler
}

func NewBus(log zerolog.Logger, handlers ...Handler) *Bus {
	return &Bus{log: log, handlers: handlers}
}

func (b *Bus) Register(h Handler) {
	b.handlers = append(b.handlers, h)
}

func (b *Bus) Publish(ctx context.Context, event Event) []error {
	var errs []error
	for _, h := range b.handlers {
		if err := h.Handle(ctx, event); err != nil {
			b.log.Error().Err(err).Str("event", event.EventName()).Msg("event handler failed")
			errs = append(errs, err)
		}
	}
	return errs
}
