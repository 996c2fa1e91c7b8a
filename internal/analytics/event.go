package analytics

import "time"

// Topics for link lifecycle events.
const (
	TopicLinkCreated = "link.created"
	TopicLinkVisited = "link.visited"
	TopicLinkDeleted = "link.deleted"
)

// LinkCreatedEvent is emitted when a URL is shortened.
type LinkCreatedEvent struct {
	Code      string    `json:"code"`
	LongURL   string    `json:"longUrl"`
	OwnerID   string    `json:"ownerId,omitempty"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// LinkVisitedEvent is emitted when a short link redirects.
type LinkVisitedEvent struct {
	Code      string    `json:"code"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
	VisitedAt time.Time `json:"visitedAt"`
}

// LinkDeletedEvent is emitted when an owner removes a mapping.
type LinkDeletedEvent struct {
	Code      string    `json:"code"`
	OwnerID   string    `json:"ownerId"`
	DeletedAt time.Time `json:"deletedAt"`
}
