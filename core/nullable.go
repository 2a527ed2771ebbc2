package core

import "github.com/volatiletech/null/v8"

// Nullable patch fields distinguish an omitted key from an explicit JSON null:
// UnmarshalJSON only runs for keys present in the payload, so Set reports
// whether the client provided the field at all while Valid reports whether it
// carried a non-null value.

type NullableString struct {
	null.String
	Set bool
}

func (s *NullableString) UnmarshalJSON(data []byte) error {
	s.Set = true
	return s.String.UnmarshalJSON(data)
}

type NullableTime struct {
	null.Time
	Set bool
}

func (t *NullableTime) UnmarshalJSON(data []byte) error {
	t.Set = true
	return t.Time.UnmarshalJSON(data)
}
