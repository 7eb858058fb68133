package catalog

// UserType distinguishes individual creators from agencies managing creators.
type UserType string

const (
	UserTypeCreator UserType = "creator"
	UserTypeAgency  UserType = "agency"
)

// User is the mock account attached to a session.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Type  UserType `json:"type"`
}

// AuthState is persisted to the local cache on every change and removed on logout.
type AuthState struct {
	IsAuthenticated bool     `json:"isAuthenticated"`
	UserType        UserType `json:"userType"`
	CurrentUser     *User    `json:"currentUser"`
}
