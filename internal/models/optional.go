// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "encoding/json"

// Optional is a tri-state JSON field for partial updates. It distinguishes
// a field that was omitted from the request body (Set == false) from one
// that was sent as null (Set && !Valid) and from one carrying a value
// (Set && Valid). Partial update handlers keep the stored value for omitted
// fields and clear nullable columns for explicit nulls.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON is only invoked for fields present in the body, so its being
// called at all means Set. A JSON null leaves Valid false.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
