// Package models defines the wire and persistence types shared by the
// shipdash server and client.
package models

// Role is the authorization role of a user account.
type Role string

const (
	// RoleAdmin may manage users and reference data.
	RoleAdmin Role = "admin"
	// RoleUser may capture shipments and view reports.
	RoleUser Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an application account.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the login name, compared case-insensitively.
	Username string `json:"username"`
	// Role gates navigation and management screens.
	Role Role `json:"role"`
	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash []byte `json:"-"`
}

// Identity is the {username, role} record the client keeps as currentUser.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	Expiry    int64  `json:"expiry,omitempty"`
	Signature string `json:"signature,omitempty"`
	IP        string `json:"ip,omitempty"`
}

// UserRequest is the body of POST /api/users and PUT /api/users/{id}.
type UserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// UserResponse wraps a created user.
type UserResponse struct {
	OK   bool `json:"ok"`
	User User `json:"user"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Collection names known to the backend.
const (
	CollectionUsers          = "users"
	CollectionFedexOrders    = "fedexOrders"
	CollectionUSPSOrders     = "uspsOrders"
	CollectionRetainedOrders = "retainedOrders"
	CollectionFinishedGoods  = "finishedGoods"
	CollectionMaterialsBOM   = "materialsBOM"
	CollectionObservations   = "observations"
	CollectionPartNumbers    = "partNumbers"
	CollectionInvoiceSearch  = "invoiceSearch"
	CollectionInvoiceHistory = "invoiceHistory"
	CollectionCutsReport     = "cutsReport"
	CollectionDailyReport    = "dailyReport"
)

// Collections lists every collection the backend stores, in response order.
var Collections = []string{
	CollectionUsers,
	CollectionFedexOrders,
	CollectionUSPSOrders,
	CollectionRetainedOrders,
	CollectionFinishedGoods,
	CollectionMaterialsBOM,
	CollectionObservations,
	CollectionPartNumbers,
	CollectionInvoiceSearch,
	CollectionInvoiceHistory,
	CollectionCutsReport,
	CollectionDailyReport,
}

// IsCollection reports whether name is a known collection.
func IsCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}
