package types

import "time"

// Blogpost represents a single post authored by a user.
type Blogpost struct {
	// ID is the unique identifier of the post.
	ID int `json:"id" db:"id"`

	// Title is the post's headline.
	Title string `json:"title" db:"title"`

	// Contents is the post body.
	Contents string `json:"contents" db:"contents"`

	// OwnerID references the user who authored the post. Only the owner
	// may update or delete it.
	OwnerID int `json:"owner_id" db:"owner_id"`

	// CreatedAt is the timestamp when the post was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// ModifiedAt is the timestamp of the most recent update to the post.
	ModifiedAt time.Time `json:"modified_at" db:"modified_at"`
}
