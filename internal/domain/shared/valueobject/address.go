package valueobject

import (
	"encoding/json"
	"net/url"
	"strings"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// Address is a value object representing a delivery address.
// Every part is optional free text; values are stored trimmed.
// It is immutable - all operations return new Address instances
type Address struct {
	street  string
	city    string
	state   string
	pincode string
}

// NewAddress creates a new Address, trimming surrounding whitespace from every part
func NewAddress(street, city, state, pincode string) Address {
	return Address{
		street:  strings.TrimSpace(street),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		pincode: strings.TrimSpace(pincode),
	}
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// State returns the state
func (a Address) State() string {
	return a.state
}

// Pincode returns the postal index number
func (a Address) Pincode() string {
	return a.pincode
}

// IsEmpty returns true if every part of the address is blank
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.state == "" && a.pincode == ""
}

// FullAddress joins the non-empty parts as "street, city, state, pincode"
func (a Address) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.street, a.city, a.state, a.pincode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// MapsURL returns a map search link for the address, or "" when it is empty
func (a Address) MapsURL() string {
	full := a.FullAddress()
	if full == "" {
		return ""
	}
	return mapsSearchURL + url.QueryEscape(full)
}

// Equals reports whether both addresses hold the same parts
func (a Address) Equals(other Address) bool {
	return a == other
}

type addressJSON struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:  a.street,
		City:    a.city,
		State:   a.state,
		Pincode: a.pincode,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var raw addressJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = NewAddress(raw.Street, raw.City, raw.State, raw.Pincode)
	return nil
}
