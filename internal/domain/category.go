package domain

// Category groups tickets and the engineers eligible to take them.
type Category struct {
	ID          int64
	Name        string
	Description string
	Engineers   []User
}
