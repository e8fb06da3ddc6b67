package domain

import "github.com/google/uuid"

// User is the identity the gateway authenticated for the current request.
// The booking core never stores users; it only needs to know who is asking
// and whether they may act as an administrator.
type User struct {
	ID    uuid.UUID
	Email string
	Admin bool
}

// CanManage reports whether the user may view or cancel the given booking.
func (u User) CanManage(b *Booking) bool {
	return u.Admin || u.ID == b.UserID
}
