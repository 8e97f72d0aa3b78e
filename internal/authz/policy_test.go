package authz

import (
	"testing"

	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestSuperAdminBypassesTenantScoping(t *testing.T) {
	admin := Actor{ID: 1, Role: model.RoleSuperAdmin}

	for _, action := range []Action{
		ActionViewOrder, ActionApplyPayment, ActionManageProducts,
		ActionUpsertLedger, ActionManageTenants, ActionDeliverOrder,
	} {
		assert.True(t, Can(admin, action, Target{SupplierID: 42, ClientID: 7}),
			"super admin should hold %s on any tenant", action)
	}
}

func TestSupplierAdminScopedToOwnTenant(t *testing.T) {
	admin := Actor{ID: 2, Role: model.RoleSupplierAdmin, SupplierID: uintPtr(1)}

	assert.True(t, Can(admin, ActionApplyPayment, Target{SupplierID: 1}))
	assert.True(t, Can(admin, ActionManageProducts, Target{SupplierID: 1}))
	assert.True(t, Can(admin, ActionUpsertLedger, Target{SupplierID: 1}))
	assert.True(t, Can(admin, ActionViewOrder, Target{SupplierID: 1, ClientID: 99}))

	// Foreign tenant
	assert.False(t, Can(admin, ActionApplyPayment, Target{SupplierID: 2}))
	assert.False(t, Can(admin, ActionViewOrder, Target{SupplierID: 2}))

	// Supplier admins never manage tenants
	assert.False(t, Can(admin, ActionManageTenants, Target{SupplierID: 1}))
}

func TestClientCanOnlyTouchOwnOrders(t *testing.T) {
	client := Actor{ID: 10, Role: model.RoleClient, SupplierID: uintPtr(1)}

	assert.True(t, Can(client, ActionViewOrder, Target{SupplierID: 1, ClientID: 10}))
	assert.False(t, Can(client, ActionViewOrder, Target{SupplierID: 1, ClientID: 11}))
	assert.True(t, Can(client, ActionCreateOrder, Target{SupplierID: 1, ClientID: 10}))
	assert.False(t, Can(client, ActionCreateOrder, Target{SupplierID: 2, ClientID: 10}))

	// A client never delivers, even their own order
	assert.False(t, Can(client, ActionDeliverOrder, Target{SupplierID: 1, ClientID: 10}))
	assert.False(t, Can(client, ActionApplyPayment, Target{SupplierID: 1, ClientID: 10}))
}

func TestStaffDeliveryRequiresAssignment(t *testing.T) {
	staff := Actor{ID: 20, Role: model.RoleStaff, SupplierID: uintPtr(1)}

	assigned := Target{SupplierID: 1, ClientID: 10, StaffID: uintPtr(20)}
	other := Target{SupplierID: 1, ClientID: 10, StaffID: uintPtr(21)}
	unassigned := Target{SupplierID: 1, ClientID: 10}

	assert.True(t, Can(staff, ActionDeliverOrder, assigned))
	assert.True(t, Can(staff, ActionViewOrder, assigned))
	assert.True(t, Can(staff, ActionRequestDues, assigned))

	assert.False(t, Can(staff, ActionDeliverOrder, other))
	assert.False(t, Can(staff, ActionDeliverOrder, unassigned))
	assert.False(t, Can(staff, ActionViewOrder, other))

	// Staff of another tenant, even if "assigned" by id collision
	foreign := Actor{ID: 20, Role: model.RoleStaff, SupplierID: uintPtr(2)}
	assert.False(t, Can(foreign, ActionDeliverOrder, assigned))
}

func TestActorWithoutTenantDeniedEverywhere(t *testing.T) {
	orphan := Actor{ID: 30, Role: model.RoleStaff}
	assert.False(t, Can(orphan, ActionViewOrder, Target{SupplierID: 1, StaffID: uintPtr(30)}))
	assert.False(t, Can(orphan, ActionDeliverOrder, Target{SupplierID: 1, StaffID: uintPtr(30)}))
}
