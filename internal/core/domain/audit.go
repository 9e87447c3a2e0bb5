package domain

import "time"

type ActionKind int

const (
	ActionCreate ActionKind = iota + 1
	ActionUpdate
	ActionDelete
	ActionLogin
	ActionLogout
)

// EntityKind enumerates auditable entity kinds. Values are part of the stored
// records; keep them stable.
type EntityKind int

const (
	EntityCompany             EntityKind = 1
	EntityShipmentApplication EntityKind = 2
	EntitySupplyApplication   EntityKind = 3
	EntityRecyclablesDeal     EntityKind = 5
)

// ChangeOrigin distinguishes mutations made through the entity's own form
// from those made through the company card bulk flow.
type ChangeOrigin int

const (
	OriginForm ChangeOrigin = iota + 1
	OriginCompanyCard
)

// ActionRecord is one immutable audit row describing a user-attributable
// mutation. EntityID is stored as text rather than a typed foreign key so the
// record outlives its subject. Rows are created once and never updated.
type ActionRecord struct {
	ID            int64
	UserID        int64
	Action        ActionKind
	Entity        EntityKind
	EntityID      string
	UpdatedFields []string
	CreatedAt     time.Time
}

type ActionFilter struct {
	UserID  int64
	Action  ActionKind
	Entity  EntityKind
	AfterID int64
	Limit   int
}
