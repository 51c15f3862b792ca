// AngelaMos | 2026
// entity.go

package review

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `db:"id"`
	Review    string    `db:"review"`
	Rating    int       `db:"rating"`
	TourID    uuid.UUID `db:"tour_id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Joined author fields for embedded responses.
	AuthorName  string `db:"author_name"`
	AuthorPhoto string `db:"author_photo"`
}
