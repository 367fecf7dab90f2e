package user

// User is the profile the attendance engine reads. Users are managed
// elsewhere; this package never writes them.
type User struct {
	ID         string
	FirstName  string
	LastName   string
	Department *string
	Role       *string
}

// FullName joins first and last name with a single space.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
