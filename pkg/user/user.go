package user

// User is an account identified by email. The Uid is the external identifier
// exchanged with clients; the numeric Id never leaves the service.
type User struct {
	Id          int
	Uid         string
	Email       string
	DisplayName string
}
