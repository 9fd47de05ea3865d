// Package authz maps roles to the fixed set of actions and views they may
// reach. This is authorization-by-visibility for a single-clinic deployment,
// not a general permission system: the table is static and validated
// exhaustively over the role enumeration at startup.
package authz

import (
	"fmt"

	"github.com/clinovahealth/clinicflow/internal/domain"
)

type Action string

const (
	ActionRegisterWalkIn Action = "register_walkin"
	ActionCollectPayment Action = "collect_payment"
	ActionCheckIn        Action = "check_in"

	ActionViewQueue           Action = "view_queue"
	ActionStartConsultation   Action = "start_consultation"
	ActionFinalizeConsult     Action = "finalize_consultation"
	ActionRequestAIAdvisory   Action = "request_ai_advisory"
	ActionViewPatientHistory  Action = "view_patient_history"
	ActionCancelAppointment   Action = "cancel_appointment"
	ActionViewAppointments    Action = "view_appointments"
	ActionViewPatientRegistry Action = "view_patient_registry"

	ActionDispense        Action = "dispense"
	ActionViewInventory   Action = "view_inventory"
	ActionUpdateInventory Action = "update_inventory"

	ActionAdvanceLabOrder Action = "advance_lab_order"
	ActionViewLabOrders   Action = "view_lab_orders"

	ActionViewReports Action = "view_reports"
)

// Policy is the action set and landing view for one role.
type Policy struct {
	Actions     []Action
	DefaultView string
}

func (p Policy) allows(a Action) bool {
	for _, got := range p.Actions {
		if got == a {
			return true
		}
	}
	return false
}

var policies = map[domain.Role]Policy{
	domain.RoleReceptionist: {
		DefaultView: "reception-dashboard",
		Actions: []Action{
			ActionRegisterWalkIn, ActionCollectPayment, ActionCheckIn,
			ActionCancelAppointment, ActionViewAppointments, ActionViewPatientRegistry,
		},
	},
	domain.RoleDoctor: {
		DefaultView: "doctor-dashboard",
		Actions: []Action{
			ActionViewQueue, ActionStartConsultation, ActionFinalizeConsult,
			ActionRequestAIAdvisory, ActionViewPatientHistory, ActionViewAppointments,
		},
	},
	domain.RolePharmacist: {
		DefaultView: "pharmacy-dashboard",
		Actions: []Action{
			ActionDispense, ActionViewInventory, ActionUpdateInventory,
		},
	},
	domain.RoleLabTech: {
		DefaultView: "lab-dashboard",
		Actions: []Action{
			ActionAdvanceLabOrder, ActionViewLabOrders,
		},
	},
	domain.RoleClinicAdmin: {
		DefaultView: "admin-dashboard",
		Actions: []Action{
			ActionViewAppointments, ActionViewPatientRegistry, ActionViewInventory,
			ActionViewLabOrders, ActionViewReports,
		},
	},
	domain.RoleSuperAdmin: {
		DefaultView: "admin-dashboard",
		Actions: []Action{
			ActionViewAppointments, ActionViewPatientRegistry, ActionViewInventory,
			ActionViewLabOrders, ActionViewReports,
		},
	},
}

// PolicyFor returns the policy for a role. The second return is false for
// unknown roles; callers should treat that as deny-all.
func PolicyFor(role domain.Role) (Policy, bool) {
	p, ok := policies[role]
	return p, ok
}

// Allowed reports whether the role may invoke the action.
func Allowed(role domain.Role, action Action) bool {
	p, ok := policies[role]
	return ok && p.allows(action)
}

// DefaultView returns the landing view after a role switch.
func DefaultView(role domain.Role) string {
	if p, ok := policies[role]; ok {
		return p.DefaultView
	}
	return ""
}

// Validate ensures every role in the enumeration carries a policy and every
// policy has a landing view. Called once at startup.
func Validate() error {
	for _, r := range domain.Roles() {
		p, ok := policies[r]
		if !ok {
			return fmt.Errorf("role %q has no authorization policy", r)
		}
		if p.DefaultView == "" {
			return fmt.Errorf("role %q has no default view", r)
		}
	}
	return nil
}
