package model

// Role names the administrative role of an account. The set below is closed;
// any other value (including empty) is treated as a generic admin and falls
// through to the default dashboard.
type Role string

const (
	RoleSuperAdmin   Role = "Super Admin"
	RoleOrderAdmin   Role = "Order Admin"
	RoleFinanceAdmin Role = "Finance Admin"
	RoleProductAdmin Role = "Product Admin"
)

// Destination is a named navigation target the console redirects to after a
// successful login, chosen solely by role.
type Destination string

const (
	DestSuperAdmin     Destination = "/super-admin/dashboard"
	DestOrderAdmin     Destination = "/order-admin/dashboard"
	DestFinanceAdmin   Destination = "/finance-admin/dashboard"
	DestProductAdmin   Destination = "/product-admin/dashboard"
	DestAdminDashboard Destination = "/admin/dashboard" // fallback for unrecognized roles
)
