package users

// User is an account in the scholarship portal. Authentication happens at
// the JWT boundary; this record carries contact details for outbound mail.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// FullName joins the name parts for display and email salutations.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
