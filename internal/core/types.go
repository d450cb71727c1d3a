package core

import "estatecore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Base               = domain.Base
	Property           = domain.Property
	Zone               = domain.Zone
	Project            = domain.Project
	PaymentPlan        = domain.PaymentPlan
	Developer          = domain.Developer
	Lead               = domain.Lead
	Meeting            = domain.Meeting
	Contract           = domain.Contract
	User               = domain.User
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	Snapshot           = domain.Snapshot
	RulesEngine        = domain.RulesEngine
	Transaction        = domain.Transaction
	TransactionView    = domain.TransactionView
	PersistentStore    = domain.PersistentStore
)

const (
	EntityProperty  = domain.EntityProperty
	EntityZone      = domain.EntityZone
	EntityProject   = domain.EntityProject
	EntityDeveloper = domain.EntityDeveloper
	EntityLead      = domain.EntityLead
	EntityMeeting   = domain.EntityMeeting
	EntityContract  = domain.EntityContract
	EntityUser      = domain.EntityUser
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
