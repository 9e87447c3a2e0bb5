package usecase

import (
	"context"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

const originCardEntry = "origin - company card"

// Recorder subscribes to the event bus and persists one action record per
// event it recognizes. Records are write-only: the recorder never reads back
// or validates what it wrote. Failures are wrapped in AuditWriteError so the
// bus can collect them without failing the triggering request.
type Recorder struct {
	records ports.ActionRecordRepository
}

func NewRecorder(records ports.ActionRecordRepository) *Recorder {
	return &Recorder{records: records}
}

func (r *Recorder) Handle(ctx context.Context, event Event) error {
	switch e := event.(type) {
	case CompanyUpdated:
		// Empty change records produce no audit row at all.
		if len(e.Changes) == 0 {
			return nil
		}
		return r.create(ctx, domain.ActionRecord{
			UserID:        e.Actor.ID,
			Action:        domain.ActionUpdate,
			Entity:        domain.EntityCompany,
			EntityID:      fmtInt(e.Company.ID),
			UpdatedFields: e.Changes,
		})
	case SupplyContractCreated:
		return r.create(ctx, domain.ActionRecord{
			UserID:        e.Actor.ID,
			Action:        domain.ActionCreate,
			Entity:        domain.EntitySupplyApplication,
			EntityID:      fmtInt(e.Application.ID),
			UpdatedFields: creationFields(e.Application, e.Material, e.CompanyName, "volume", e.Application.Volume, e.Origin),
		})
	case SupplyContractUpdated:
		if len(e.Changes) == 0 {
			return nil
		}
		return r.create(ctx, domain.ActionRecord{
			UserID:        e.Actor.ID,
			Action:        domain.ActionUpdate,
			Entity:        domain.EntitySupplyApplication,
			EntityID:      fmtInt(e.Application.ID),
			UpdatedFields: updateFields(e.Application.CompanyID, e.CompanyName, e.Changes, e.Origin),
		})
	case SupplyContractDeleted:
		return r.create(ctx, domain.ActionRecord{
			UserID:   e.Actor.ID,
			Action:   domain.ActionDelete,
			Entity:   domain.EntitySupplyApplication,
			EntityID: fmtInt(e.Application.ID),
		})
	case ShipmentContractCreated:
		return r.create(ctx, domain.ActionRecord{
			UserID:        e.Actor.ID,
			Action:        domain.ActionCreate,
			Entity:        domain.EntityShipmentApplication,
			EntityID:      fmtInt(e.Application.ID),
			UpdatedFields: creationFields(e.Application, e.Material, e.CompanyName, "full_weight", e.Application.FullWeight, domain.OriginForm),
		})
	case ShipmentContractUpdated:
		if len(e.Changes) == 0 {
			return nil
		}
		return r.create(ctx, domain.ActionRecord{
			UserID:        e.Actor.ID,
			Action:        domain.ActionUpdate,
			Entity:        domain.EntityShipmentApplication,
			EntityID:      fmtInt(e.Application.ID),
			UpdatedFields: updateFields(e.Application.CompanyID, e.CompanyName, e.Changes, domain.OriginForm),
		})
	case ShipmentContractDeleted:
		return r.create(ctx, domain.ActionRecord{
			UserID:   e.Actor.ID,
			Action:   domain.ActionDelete,
			Entity:   domain.EntityShipmentApplication,
			EntityID: fmtInt(e.Application.ID),
		})
	case DealCreated:
		return r.create(ctx, domain.ActionRecord{
			UserID:   e.Actor.ID,
			Action:   domain.ActionCreate,
			Entity:   domain.EntityRecyclablesDeal,
			EntityID: fmtInt(e.Deal.ID),
			UpdatedFields: []string{
				"deal_number - " + e.Deal.DealNumber,
				"application - " + fmtInt(e.Deal.ApplicationID),
				"price - " + fmtFloat(e.Deal.Price),
			},
		})
	case DealUpdated:
		if len(e.Changes) == 0 {
			return nil
		}
		return r.create(ctx, domain.ActionRecord{
			UserID:        e.Actor.ID,
			Action:        domain.ActionUpdate,
			Entity:        domain.EntityRecyclablesDeal,
			EntityID:      fmtInt(e.Deal.ID),
			UpdatedFields: e.Changes,
		})
	case UserLoggedIn:
		return r.create(ctx, domain.ActionRecord{
			UserID: e.User.ID,
			Action: domain.ActionLogin,
		})
	case UserLoggedOut:
		return r.create(ctx, domain.ActionRecord{
			UserID: e.User.ID,
			Action: domain.ActionLogout,
		})
	}
	return nil
}

func (r *Recorder) create(ctx context.Context, record domain.ActionRecord) error {
	if _, err := r.records.Create(ctx, record); err != nil {
		return &domain.AuditWriteError{Err: err}
	}
	return nil
}

// creationFields is the seeded description list for freshly created
// applications: the user-visible identity of the subject, free text.
func creationFields(app domain.RecyclablesApplication, material domain.Recyclables, companyName, amountField string, amount int64, origin domain.ChangeOrigin) []string {
	fields := []string{
		"company - " + companyName,
		"company_id - " + fmtInt(app.CompanyID),
		"recyclables_id - " + fmtInt(material.ID),
		"recyclables_name - " + material.Name,
		"price - " + fmtFloat(app.Price),
		amountField + " - " + fmtInt(amount),
		"deal_type - " + fmtInt(int64(app.DealType)),
	}
	if origin == domain.OriginCompanyCard {
		fields = append(fields, originCardEntry)
	}
	return fields
}

// updateFields prepends the owning-company context to a non-empty change
// record, company id first.
func updateFields(companyID int64, companyName string, changes []string, origin domain.ChangeOrigin) []string {
	fields := make([]string, 0, len(changes)+3)
	fields = append(fields, "company_id - "+fmtInt(companyID), "company_name - "+companyName)
	fields = append(fields, changes...)
	if origin == domain.OriginCompanyCard {
		fields = append(fields, originCardEntry)
	}
	return fields
}
