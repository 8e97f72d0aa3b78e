// Package authz holds the capability policy gating every mutating
// operation. Role checks live here rather than being scattered through the
// handlers, so the policy can be tested apart from the entities it guards.
package authz

import (
	"github.com/samusdtt/Waterflow/internal/model"
)

// Action is a capability an actor may or may not hold over a target
type Action string

const (
	ActionViewOrder      Action = "order.view"
	ActionCreateOrder    Action = "order.create"
	ActionDeliverOrder   Action = "order.deliver"
	ActionUpdateOrder    Action = "order.update_status"
	ActionRequestDues    Action = "order.request_dues"
	ActionApplyPayment   Action = "payment.apply"
	ActionManageProducts Action = "product.manage"
	ActionManageStaff    Action = "staff.manage"
	ActionUpsertLedger   Action = "ledger.upsert"
	ActionViewReports    Action = "reports.view"
	ActionManageTenants  Action = "tenant.manage"
)

// Actor is the authenticated identity evaluated by the policy
type Actor struct {
	ID         uint
	Role       string
	SupplierID *uint
}

// Target identifies the entity an action is applied to. SupplierID is the
// owning tenant; ClientID and StaffID are set for order-level checks.
type Target struct {
	SupplierID uint
	ClientID   uint
	StaffID    *uint
}

// sameTenant reports whether the actor belongs to the target's tenant
func sameTenant(a Actor, t Target) bool {
	return a.SupplierID != nil && *a.SupplierID == t.SupplierID
}

// Can decides whether the actor may perform the action on the target.
// Super admins bypass tenant scoping entirely; every other role requires a
// supplier match before any per-action rule applies.
func Can(a Actor, action Action, t Target) bool {
	if a.Role == model.RoleSuperAdmin {
		return true
	}

	switch action {
	case ActionManageTenants:
		// Only super admins manage tenants, handled above.
		return false

	case ActionCreateOrder:
		return a.Role == model.RoleClient && sameTenant(a, t)

	case ActionViewOrder:
		if !sameTenant(a, t) {
			return false
		}
		switch a.Role {
		case model.RoleSupplierAdmin:
			return true
		case model.RoleClient:
			return a.ID == t.ClientID
		case model.RoleStaff:
			return t.StaffID != nil && a.ID == *t.StaffID
		}
		return false

	case ActionDeliverOrder, ActionRequestDues:
		if !sameTenant(a, t) {
			return false
		}
		// The assigned staff member, or a tenant admin acting as staff.
		if a.Role == model.RoleSupplierAdmin {
			return true
		}
		return a.Role == model.RoleStaff && t.StaffID != nil && a.ID == *t.StaffID

	case ActionApplyPayment, ActionUpdateOrder, ActionManageProducts,
		ActionManageStaff, ActionUpsertLedger, ActionViewReports:
		return a.Role == model.RoleSupplierAdmin && sameTenant(a, t)
	}

	return false
}
