package entity

// Operator is the authenticated staff member driving a billing session.
// Token is the bearer token forwarded to the pharmacy backend.
type Operator struct {
	EmployeeID int64
	Name       string
	Roles      []string
	Token      string
}
