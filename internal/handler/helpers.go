package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samusdtt/Waterflow/internal/authz"
	"github.com/samusdtt/Waterflow/internal/model"
	"github.com/samusdtt/Waterflow/pkg/database"
	"github.com/samusdtt/Waterflow/pkg/jwtutil"
)

var errNoActor = errors.New("no authenticated actor")

// currentUser loads the authenticated actor from the database using the
// claims stored by the auth middleware
func currentUser(c echo.Context) (*model.User, error) {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		return nil, errNoActor
	}

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errNoActor
	}
	return &user, nil
}

// actorOf converts a user into the policy actor
func actorOf(u *model.User) authz.Actor {
	return authz.Actor{ID: u.ID, Role: u.Role, SupplierID: u.SupplierID}
}

// orderTarget converts an order into the policy target
func orderTarget(o *model.Order) authz.Target {
	return authz.Target{SupplierID: o.SupplierID, ClientID: o.ClientID, StaffID: o.StaffID}
}

// scopedSupplierID returns the supplier the request is scoped to: supplier
// admins are pinned to their own tenant, super admins may select one via
// the supplier_id query parameter (nil means all tenants).
func scopedSupplierID(c echo.Context, u *model.User) *uint {
	if !u.IsSuperAdmin() {
		return u.SupplierID
	}
	if raw := c.QueryParam("supplier_id"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			id := uint(parsed)
			return &id
		}
	}
	return nil
}
