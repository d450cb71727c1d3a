package core

import "estatecore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewBackReferenceSymmetryRule())
	engine.Register(NewPaymentPlanAllocationRule())
	engine.Register(NewPaymentPlanIndexRule())
	engine.Register(NewForeignKeyResolutionRule())
	return engine
}

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}
