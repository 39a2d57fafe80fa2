package book

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortByAuthor SortKey = "author"
	SortByTitle  SortKey = "title"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ViewOptions selects how a collection is rendered.
type ViewOptions struct {
	Key    SortKey
	Dir    Direction
	Search string
}

// DefaultSort is the option used when the client sends none.
const DefaultSort = "author_az"

var sortOptions = map[string]ViewOptions{
	"author_az": {Key: SortByAuthor, Dir: Ascending},
	"author_za": {Key: SortByAuthor, Dir: Descending},
	"title_az":  {Key: SortByTitle, Dir: Ascending},
	"title_za":  {Key: SortByTitle, Dir: Descending},
}

// ParseSortOption maps the client's sort option string to a key and direction.
func ParseSortOption(s string) (ViewOptions, error) {
	if s == "" {
		s = DefaultSort
	}
	opt, ok := sortOptions[strings.ToLower(s)]
	if !ok {
		return ViewOptions{}, fmt.Errorf("unknown sort option %q", s)
	}
	return opt, nil
}

// SurnameToken is the last whitespace-delimited word of the first author.
// "Jane Doe" gives "Doe"; a book without authors gives "".
func SurnameToken(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	fields := strings.Fields(authors[0])
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// SortBooks returns a sorted copy of books. The direction applies to the
// primary key only; ties are broken by the other field in ascending order.
// The sort is stable.
func SortBooks(books []Book, key SortKey, dir Direction) []Book {
	coll := collate.New(language.English)

	type sortKeys struct {
		primary, secondary string
	}
	keys := make([]sortKeys, len(books))
	idx := make([]int, len(books))
	for i, b := range books {
		idx[i] = i
		if key == SortByTitle {
			keys[i] = sortKeys{primary: b.Title, secondary: SurnameToken(b.Authors)}
		} else {
			keys[i] = sortKeys{primary: SurnameToken(b.Authors), secondary: b.Title}
		}
	}

	slices.SortStableFunc(idx, func(i, j int) int {
		if c := coll.CompareString(keys[i].primary, keys[j].primary); c != 0 {
			if dir == Descending {
				return -c
			}
			return c
		}
		return coll.CompareString(keys[i].secondary, keys[j].secondary)
	})

	sorted := make([]Book, len(books))
	for n, i := range idx {
		sorted[n] = books[i]
	}
	return sorted
}

// FilterBooks keeps the books whose title or any author contains search,
// ignoring case. Order is preserved. An empty search keeps everything.
func FilterBooks(books []Book, search string) []Book {
	if search == "" {
		return slices.Clone(books)
	}
	fold := cases.Fold()
	needle := fold.String(search)

	out := make([]Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(fold.String(b.Title), needle) {
			out = append(out, b)
			continue
		}
		for _, a := range b.Authors {
			if strings.Contains(fold.String(a), needle) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// ApplyView sorts the whole collection and then filters it.
func ApplyView(books []Book, opts ViewOptions) []Book {
	if opts.Key == "" {
		opts.Key = SortByAuthor
	}
	if opts.Dir == "" {
		opts.Dir = Ascending
	}
	return FilterBooks(SortBooks(books, opts.Key, opts.Dir), opts.Search)
}
