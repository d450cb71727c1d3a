// Package domain defines the core CRM records, value types, relation table and
// rule evaluation primitives used by estatecore.
package domain

import (
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and snapshot collections.
const (
	// EntityProperty identifies a property listing.
	EntityProperty EntityType = "property"
	// EntityZone identifies a geographic zone grouping properties and projects.
	EntityZone EntityType = "zone"
	// EntityProject identifies a development project offering payment plans.
	EntityProject EntityType = "project"
	// EntityDeveloper identifies a real-estate developer.
	EntityDeveloper EntityType = "developer"
	// EntityLead identifies a sales prospect.
	EntityLead EntityType = "lead"
	// EntityMeeting identifies a scheduled meeting.
	EntityMeeting EntityType = "meeting"
	// EntityContract identifies a sales contract.
	EntityContract EntityType = "contract"
	// EntityUser identifies a directory user used for scoping.
	EntityUser EntityType = "user"
)

// PropertyStatus enumerates listing availability.
type PropertyStatus string

// Property statuses.
const (
	PropertyAvailable PropertyStatus = "Available"
	PropertyRented    PropertyStatus = "Rented"
	PropertySold      PropertyStatus = "Sold"
)

// InstallmentPeriod selects how often installments fall due.
type InstallmentPeriod string

// Installment periods understood by the schedule calculator.
const (
	PeriodMonthly    InstallmentPeriod = "monthly"
	PeriodQuarterly  InstallmentPeriod = "quarterly"
	PeriodSemiAnnual InstallmentPeriod = "semi-annual"
	PeriodCustom     InstallmentPeriod = "custom"
)

// LeadStatus tracks where a lead sits in the sales funnel.
type LeadStatus string

// Lead statuses.
const (
	LeadFreshLead        LeadStatus = "fresh_lead"
	LeadFollowUp         LeadStatus = "follow_up"
	LeadScheduledVisit   LeadStatus = "scheduled_visit"
	LeadOpenDeal         LeadStatus = "open_deal"
	LeadClosedDeal       LeadStatus = "closed_deal"
	LeadCancellation     LeadStatus = "cancellation"
	LeadNoAnswer         LeadStatus = "no_answer"
	LeadNotInterestedNow LeadStatus = "not_interested_now"
	LeadReservation      LeadStatus = "reservation"
	LeadVIP              LeadStatus = "vip"
)

// LeadStatuses lists every lead status in funnel order.
var LeadStatuses = []LeadStatus{
	LeadFreshLead,
	LeadFollowUp,
	LeadScheduledVisit,
	LeadOpenDeal,
	LeadClosedDeal,
	LeadCancellation,
	LeadNoAnswer,
	LeadNotInterestedNow,
	LeadReservation,
	LeadVIP,
}

// MeetingStatus enumerates meeting workflow states.
type MeetingStatus string

// Meeting statuses.
const (
	MeetingScheduled MeetingStatus = "Scheduled"
	MeetingCompleted MeetingStatus = "Completed"
	MeetingCancelled MeetingStatus = "Cancelled"
)

// ContractStatus enumerates contract signing states.
type ContractStatus string

// Contract statuses.
const (
	ContractPending   ContractStatus = "Pending"
	ContractSigned    ContractStatus = "Signed"
	ContractCancelled ContractStatus = "Cancelled"
)

// Role determines which records a user may see in scoped queries.
type Role string

// Directory roles.
const (
	RoleAdmin      Role = "admin"
	RoleSalesAdmin Role = "sales_admin"
	RoleTeamLeader Role = "team_leader"
	RoleSalesRep   Role = "sales_rep"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// DateLayout is the calendar date format exchanged with the form layer.
const DateLayout = "2006-01-02"

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta exposes the embedded Base so generic store helpers can stamp records.
func (b *Base) Meta() *Base { return b }

// Property is a listing that may belong to a zone and a project.
type Property struct {
	Base
	Title            string         `json:"title"`
	Type             string         `json:"type"`
	Price            int64          `json:"price"`
	Location         string         `json:"location"`
	Area             float64        `json:"area"`
	Bedrooms         int            `json:"bedrooms"`
	Bathrooms        int            `json:"bathrooms"`
	Parking          int            `json:"parking"`
	Amenities        []string       `json:"amenities"`
	Status           PropertyStatus `json:"status"`
	ZoneID           string         `json:"zone_id,omitempty"`
	ProjectID        string         `json:"project_id,omitempty"`
	DeveloperID      string         `json:"developer_id,omitempty"`
	PaymentPlanIndex *int           `json:"payment_plan_index,omitempty"`
	CreatedBy        string         `json:"created_by,omitempty"`
}

// Zone groups properties and projects geographically.
type Zone struct {
	Base
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	PropertyIDs []string `json:"property_ids"`
	ProjectIDs  []string `json:"project_ids"`
	Properties  int      `json:"properties"`
	Projects    int      `json:"projects"`
}

// PaymentPlan describes one installment structure offered by a project.
type PaymentPlan struct {
	Name                 string            `json:"name,omitempty"`
	DownPayment          float64           `json:"down_payment"`
	Delivery             float64           `json:"delivery"`
	InstallmentPeriod    InstallmentPeriod `json:"installment_period"`
	CustomMonths         int               `json:"custom_months,omitempty"`
	PayYears             int               `json:"pay_years"`
	FirstInstallmentDate string            `json:"first_installment_date"`
	DeliveryDate         string            `json:"delivery_date"`
	DownPaymentDate      string            `json:"down_payment_date,omitempty"`
}

// InstallmentPercent returns the share of the price left for installments, clamped at zero.
func (p PaymentPlan) InstallmentPercent() float64 {
	remaining := 100 - p.DownPayment - p.Delivery
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Project is a development offered by a developer inside a zone.
type Project struct {
	Base
	Name          string        `json:"name"`
	DeveloperName string        `json:"developer_name"`
	DeveloperID   string        `json:"developer_id,omitempty"`
	ZoneID        string        `json:"zone_id,omitempty"`
	PaymentPlans  []PaymentPlan `json:"payment_plans"`
	PropertyIDs   []string      `json:"property_ids"`
	Properties    int           `json:"properties"`
}

// Plan resolves a payment plan by index.
func (p Project) Plan(index int) (PaymentPlan, bool) {
	if index < 0 || index >= len(p.PaymentPlans) {
		return PaymentPlan{}, false
	}
	return p.PaymentPlans[index], true
}

// Developer builds projects.
type Developer struct {
	Base
	Name       string   `json:"name"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Website    string   `json:"website,omitempty"`
	ProjectIDs []string `json:"project_ids"`
	Projects   int      `json:"projects"`
}

// CallLog records a phone call made to a lead.
type CallLog struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Outcome  string `json:"outcome"`
	Duration int    `json:"duration"`
	Notes    string `json:"notes,omitempty"`
}

// VisitLog records a property visit by a lead.
type VisitLog struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	PropertyID string `json:"property_id,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Note is a free-form comment left on a lead.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Lead is a sales prospect with its activity history.
type Lead struct {
	Base
	Name       string     `json:"name"`
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email,omitempty"`
	Source     string     `json:"source,omitempty"`
	Budget     int64      `json:"budget,omitempty"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	CreatedBy  string     `json:"created_by,omitempty"`
	Status     LeadStatus `json:"status"`
	Calls      []CallLog  `json:"calls"`
	Visits     []VisitLog `json:"visits"`
	Notes      []Note     `json:"notes"`
}

// Meeting is an appointment with a client.
type Meeting struct {
	Base
	Title     string        `json:"title"`
	Client    string        `json:"client"`
	LeadID    string        `json:"lead_id,omitempty"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Duration  int           `json:"duration"`
	Type      string        `json:"type"`
	Status    MeetingStatus `json:"status"`
	Assignee  string        `json:"assignee,omitempty"`
	CreatedBy string        `json:"created_by,omitempty"`
}

// Contract records a deal closed on a property.
type Contract struct {
	Base
	LeadID       string         `json:"lead_id,omitempty"`
	PropertyID   string         `json:"property_id,omitempty"`
	DealValue    string         `json:"deal_value"`
	ContractDate string         `json:"contract_date"`
	Status       ContractStatus `json:"status"`
	CreatedBy    string         `json:"created_by,omitempty"`
}

// User is a directory entry used to scope statistics.
type User struct {
	Base
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role"`
	TeamID string `json:"team_id,omitempty"`
}

// Change describes a mutation applied to an entity within a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Filter returns the violations carrying the given severity.
func (r Result) Filter(severity Severity) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == severity {
			out = append(out, v)
		}
	}
	return out
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
