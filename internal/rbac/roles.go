package rbac

// Account statuses. Keep these stable; they are stored on users and carried
// in token claims.
const (
	StatusCustomer = "customer"
	StatusAdmin    = "admin"
)

func IsAdmin(status string) bool { return status == StatusAdmin }
