package domain

import "time"

type CompanyStatus int

const (
	CompanyNotVerified CompanyStatus = iota + 1
	CompanyVerified
	CompanyReliable
)

// Company is a trading-platform participant. Latitude, longitude, city and
// manager use the zero value to mean "not set"; the diff engine relies on
// that convention.
type Company struct {
	ID                   int64
	Name                 string
	INN                  string
	Address              string
	Latitude             float64
	Longitude            float64
	Description          string
	WithVAT              bool
	BIC                  string
	PaymentAccount       string
	CorrespondentAccount string
	BankName             string
	HeadFullName         string
	Phone                string
	Email                string
	CityID               int64
	ManagerID            int64
	OwnerID              int64
	Status               CompanyStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Trusted reports whether the company's verification tier lets its
// applications go straight to the published status.
func (c Company) Trusted() bool {
	return c.Status == CompanyVerified || c.Status == CompanyReliable
}

type City struct {
	ID     int64
	Name   string
	Region string
}

type VerificationStatus int

const (
	VerificationPending VerificationStatus = iota + 1
	VerificationApproved
	VerificationRejected
)

type CompanyVerificationRequest struct {
	ID         int64
	CompanyID  int64
	EmployeeID int64
	Status     VerificationStatus
	Comment    string
	CreatedAt  time.Time
}
