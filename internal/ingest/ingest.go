package ingest

import (
	"fmt"
	"time"

	"bookscanner/internal/book"
)

// Status is the terminal result of one ingestion.
type Status string

const (
	StatusAdded        Status = "ADDED"
	StatusDuplicate    Status = "DUPLICATE"
	StatusNotFound     Status = "NOT_FOUND"
	StatusLookupFailed Status = "LOOKUP_FAILED"
	StatusFailed       Status = "FAILED"
)

// Source records which entry point started the ingestion.
type Source string

const (
	SourceManual Source = "MANUAL"
	SourceScan   Source = "SCAN"
)

func (s Source) Valid() bool {
	return s == SourceManual || s == SourceScan
}

// Outcome is what Ingest returns. Book is set only for StatusAdded; Reason
// carries the underlying error text for StatusLookupFailed and StatusFailed.
type Outcome struct {
	Status Status     `json:"status"`
	ISBN   string     `json:"isbn"`
	Book   *book.Book `json:"book,omitempty"`
	Reason string     `json:"-"`
}

const failedMessage = "There was an error adding this book to your collection. " +
	"First, make sure you are connected to the internet. " +
	"If you are connected to the internet, try adding the book by the ISBN."

// Message is the single notification shown to the user for this outcome.
func (o Outcome) Message() string {
	switch o.Status {
	case StatusAdded:
		title := ""
		if o.Book != nil {
			title = o.Book.Title
		}
		return fmt.Sprintf("\"%s\" was added to your collection.", title)
	case StatusDuplicate:
		return "This book already exists in your collection."
	case StatusNotFound:
		return "No book found with this ISBN"
	case StatusLookupFailed:
		return "The book catalog could not be reached. Make sure you are connected to the internet and try again."
	default:
		return failedMessage
	}
}

// Attempt is the history record written once per ingestion.
type Attempt struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	ISBN       string    `json:"isbn"`
	Source     Source    `json:"source"`
	Status     Status    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
