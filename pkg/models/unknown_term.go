package models

import (
	"time"

	"github.com/google/uuid"
)

// Status values for unknown terms in the triage queue
const (
	UnknownStatusPending     = "pending"       // Sighted, awaiting curator review
	UnknownStatusReviewed    = "reviewed"      // Curator looked at it, no decision yet
	UnknownStatusAddedToDict = "added_to_dict" // Promoted to a DictionaryMapping
	UnknownStatusRejected    = "rejected"      // Not a real material/color/pattern term
)

// UnknownTerm is a term that failed dictionary resolution, queued for human
// curation. Unique per (term, category): repeated sightings increment
// Occurrences and append to Contexts rather than creating duplicates.
// Stored in unknown_terms table.
type UnknownTerm struct {
	ID             uuid.UUID        `json:"id"`
	Term           string           `json:"term"`
	Category       string           `json:"category"`
	SourcePlatform string           `json:"source_platform"`
	Occurrences    int64            `json:"occurrences"`
	Contexts       []UnknownContext `json:"contexts,omitempty"` // first sightings, in order
	Status         string           `json:"status"`
	FirstSeenAt    time.Time        `json:"first_seen_at"`
	LastSeenAt     time.Time        `json:"last_seen_at"`
}

// UnknownContext is one stored sighting snippet: the product text the term
// came from plus pointers back to the listing, so curators can judge the
// term without re-fetching the feed.
type UnknownContext struct {
	Text       string `json:"text"`
	ProductID  string `json:"product_id,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	ProductURL string `json:"product_url,omitempty"`
}

// UnknownSighting is one observation of an unresolvable term, carrying
// enough surrounding detail for a curator to judge it later.
type UnknownSighting struct {
	Term           string
	Category       string
	Context        string // full product text the term was extracted from
	SourcePlatform string
	ProductID      string
	ImageURL       string
	ProductURL     string
}
