package models

import (
	"encoding/json"
	"slices"
)

// SerialSet is a set of device serials. The zero value is not usable; use
// NewSerialSet.
type SerialSet map[string]struct{}

func NewSerialSet(serials ...string) SerialSet {
	s := make(SerialSet, len(serials))
	for _, serial := range serials {
		s[serial] = struct{}{}
	}
	return s
}

// Add reports whether serial was newly added.
func (s SerialSet) Add(serial string) bool {
	if _, ok := s[serial]; ok {
		return false
	}
	s[serial] = struct{}{}
	return true
}

// Remove reports whether serial was present.
func (s SerialSet) Remove(serial string) bool {
	if _, ok := s[serial]; !ok {
		return false
	}
	delete(s, serial)
	return true
}

func (s SerialSet) Has(serial string) bool {
	_, ok := s[serial]
	return ok
}

// Sorted returns the members in ascending order, never nil.
func (s SerialSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for serial := range s {
		out = append(out, serial)
	}
	slices.Sort(out)
	return out
}

func (s SerialSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *SerialSet) UnmarshalJSON(b []byte) error {
	var serials []string
	if err := json.Unmarshal(b, &serials); err != nil {
		return err
	}
	*s = NewSerialSet(serials...)
	return nil
}
