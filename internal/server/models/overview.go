package models

import "time"

// Overview is one stored overview envelope. Version starts at 1 with the
// first write and grows by one with every accepted write.
type Overview struct {
	ID        string    `db:"id"`
	Body      []byte    `db:"body"`
	Version   int64     `db:"version"`
	UpdatedBy string    `db:"updated_by"`
	UpdatedAt time.Time `db:"updated_at"`
}
