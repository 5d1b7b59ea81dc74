package review

import "strings"

const MaxCommentLength = 1000

type Rating struct {
	value int
}

func NewRating(v int) (Rating, error) {
	if v < 1 || v > 5 {
		return Rating{}, ErrInvalidRating
	}
	return Rating{value: v}, nil
}

func (r Rating) Value() int { return r.value }

// AspectRatings are the four sub-scores accompanying the overall
// rating, each on the same 1..5 scale.
type AspectRatings struct {
	Cleanliness   Rating
	Location      Rating
	Amenities     Rating
	Communication Rating
}

func NewAspectRatings(cleanliness, location, amenities, communication int) (AspectRatings, error) {
	c, err := NewRating(cleanliness)
	if err != nil {
		return AspectRatings{}, err
	}
	l, err := NewRating(location)
	if err != nil {
		return AspectRatings{}, err
	}
	a, err := NewRating(amenities)
	if err != nil {
		return AspectRatings{}, err
	}
	m, err := NewRating(communication)
	if err != nil {
		return AspectRatings{}, err
	}
	return AspectRatings{Cleanliness: c, Location: l, Amenities: a, Communication: m}, nil
}

type Comment struct {
	text string
}

func NewComment(s string) (Comment, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Comment{}, ErrEmptyComment
	}
	if len(t) > MaxCommentLength {
		return Comment{}, ErrCommentTooLong
	}
	return Comment{text: t}, nil
}

func (c Comment) String() string { return c.text }
