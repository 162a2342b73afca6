package connection

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Binding ties a live connection to its room membership. It is set at
// create/join time and released at disconnect.
type Binding struct {
	RoomId   string
	MemberId string
}
