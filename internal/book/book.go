package book

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrDuplicate is returned by Insert when the collection already holds the ISBN.
var ErrDuplicate = errors.New("book already in collection")

// MaxListSize caps ListAll. Collections larger than this are truncated.
const MaxListSize = 10000

// Book is one owned copy in a user's collection. ISBN is unique per owner.
type Book struct {
	ID          string    `json:"-"`
	UserID      string    `json:"-"`
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title"`
	Authors     []string  `json:"authors"`
	Description string    `json:"description"`
	Categories  []string  `json:"categories"`
	PageCount   *int      `json:"page_count,omitempty"`
	Thumbnail   *string   `json:"thumbnail,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// MarshalJSON encodes nil Authors and Categories as empty arrays.
func (b Book) MarshalJSON() ([]byte, error) {
	type plain Book
	p := plain(b)
	if p.Authors == nil {
		p.Authors = []string{}
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	return json.Marshal(p)
}
