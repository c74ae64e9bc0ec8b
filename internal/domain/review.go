package domain

const (
	// MinRating is the lowest rating a review can carry.
	MinRating = 1
	// MaxRating is the highest rating a review can carry.
	MaxRating = 5
)

// Review is a single user's rating and comment on a book.
// A user gets at most one review per book, enforced at the storage layer.
type Review struct {
	Record
	UserID  string `json:"user_id"`
	BookID  string `json:"book_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// OwnedBy reports whether the review belongs to the given user.
func (r *Review) OwnedBy(userID string) bool {
	return r.UserID == userID
}
