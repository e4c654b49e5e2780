package users

import "time"

// User is the external account entity documents are bound to. This service
// only verifies existence; account lifecycle belongs to the auth provider.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
