package models

// Country enumerates the countries an office can be located in. The set is
// closed; currency rates and symbols are keyed by it.
type Country string

const (
	UnitedStates Country = "UnitedStates"
	Germany      Country = "Germany"
	Sweden       Country = "Sweden"
)

// Valid reports whether c is one of the known countries.
func (c Country) Valid() bool {
	switch c {
	case UnitedStates, Germany, Sweden:
		return true
	}
	return false
}

// Office owns zero or more assets. Deleting an office nulls the office
// reference on its assets, it never deletes them.
type Office struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Country Country `json:"country"`
}
