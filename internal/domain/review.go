package domain

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a single user's rating of a book. There is at most one
// review per (BookID, UserID) pair and only its author may change it.
type Review struct {
	Record
	BookID  string `json:"bookId"`
	UserID  string `json:"userId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`

	// Username is joined from the reviewer's account on reads.
	Username string `json:"username,omitempty"`
}

// ValidRating reports whether r is an accepted rating value.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// ReviewPatch is a partial update to a review. Nil fields are left unchanged.
type ReviewPatch struct {
	Rating  *int
	Comment *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ReviewPatch) IsEmpty() bool {
	return p.Rating == nil && p.Comment == nil
}

// BookReviews is one page of a book's reviews plus the aggregate over all of them.
type BookReviews struct {
	// AverageRating is the mean over every review of the book, 0 when there are none.
	AverageRating float64  `json:"averageRating"`
	ReviewCount   int      `json:"reviewCount"`
	Reviews       []Review `json:"reviews"`
}

// RatingSummary aggregates every review of one book.
type RatingSummary struct {
	Average float64
	Count   int
}
