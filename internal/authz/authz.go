// Package authz centralizes role-based access decisions for dashboard
// resources. Both the client dashboard and the server middleware ask the
// same question through CanAccess.
package authz

import "github.com/atinyakov/shipdash/internal/models"

// Resource names a screen or API surface guarded by role.
type Resource string

const (
	FedexCapture       Resource = "fedexShippingCapture"
	USPSRegister       Resource = "shippingRegister"
	RetainedOrders     Resource = "retainedOrders"
	FinishedGoodManage Resource = "finishedGoodManagement"
	ObservationManage  Resource = "observationManagement"
	MaterialManage     Resource = "materialManagement"
	PartNumberReport   Resource = "finishedGoodsReport"
	InvoiceSearch      Resource = "shippingSearch"
	InvoiceHistory     Resource = "invoiceHistory"
	CutReport          Resource = "cutReport"
	DailyReport        Resource = "dailyReport"
	UserManagement     Resource = "userManagement"
)

var everyone = []models.Role{models.RoleAdmin, models.RoleUser}
var adminOnly = []models.Role{models.RoleAdmin}

var policy = map[Resource][]models.Role{
	FedexCapture:       everyone,
	USPSRegister:       everyone,
	RetainedOrders:     everyone,
	FinishedGoodManage: adminOnly,
	ObservationManage:  adminOnly,
	MaterialManage:     everyone,
	PartNumberReport:   everyone,
	InvoiceSearch:      everyone,
	InvoiceHistory:     everyone,
	CutReport:          everyone,
	DailyReport:        everyone,
	UserManagement:     adminOnly,
}

// CanAccess reports whether user may use resource. A nil user or an
// unknown resource is always denied.
func CanAccess(user *models.Identity, resource Resource) bool {
	if user == nil {
		return false
	}
	for _, r := range policy[resource] {
		if r == user.Role {
			return true
		}
	}
	return false
}

// Visible returns the resources user may navigate to, in menu order.
func Visible(user *models.Identity) []Resource {
	order := []Resource{
		FedexCapture, USPSRegister, RetainedOrders,
		FinishedGoodManage, ObservationManage, MaterialManage,
		PartNumberReport, InvoiceSearch, InvoiceHistory, CutReport, DailyReport,
		UserManagement,
	}
	out := make([]Resource, 0, len(order))
	for _, r := range order {
		if CanAccess(user, r) {
			out = append(out, r)
		}
	}
	return out
}
