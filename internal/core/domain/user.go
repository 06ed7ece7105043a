package domain

// User is a tenant-scoped subscriber. The phone number is the public
// identifier every ledger operation resolves accounts through.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Username     string `json:"username"`
	PhoneNumber  string `json:"phoneNumber"` // Unique within the tenant
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	AuditFields
}
