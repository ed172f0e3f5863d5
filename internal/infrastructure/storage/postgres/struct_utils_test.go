package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type Stamps struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type seedSite struct {
	Name      string  `db:"name"`
	UserID    *int64  `db:"user_id"`
	IsPrivate bool    `db:"is_private"`
	Note      string  `db:"-"`
	hidden    string  `db:"hidden"`
	RawBytes  *int64  `db:"raw_byte_size"`
	Kind      *string `db:"tw_kind"`
	Stamps
}

func TestDBColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"name", "user_id", "is_private", "raw_byte_size", "tw_kind", "created_at", "updated_at"},
		DBColumns[seedSite]())

	// Cached plans are not shared with callers.
	cols := DBColumns[seedSite]()
	cols[0] = "mutated"
	assert.Equal(t, "name", DBColumns[seedSite]()[0])
}

func TestRowValues(t *testing.T) {
	owner := int64(4)
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	site := seedSite{
		Name:      "notes",
		UserID:    &owner,
		IsPrivate: true,
		Note:      "skipped",
		hidden:    "skipped",
		Stamps:    Stamps{CreatedAt: now, UpdatedAt: now},
	}

	values := RowValues(&site)
	assert.Len(t, values, 7)
	assert.Equal(t, "notes", values[0])
	assert.Equal(t, &owner, values[1])
	assert.Equal(t, true, values[2])
	assert.Nil(t, values[3].(*int64))
	assert.Equal(t, now, values[5])

	assert.Nil(t, RowValues(42))
}
