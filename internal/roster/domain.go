// Package roster exposes the student master data this engine consumes.
// Student CRUD lives elsewhere; the fee engine only ever reads the active
// roster for a billing run.
package roster

// Student carries the roster fields that influence billing.
type Student struct {
	ID               int64
	ClassID          int64
	HasHostel        bool
	TransportRouteID *int64
	GuardianPhone    string
	GuardianName     string
	FirstName        string
}
