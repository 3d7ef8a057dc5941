package models

import "time"

// Listing represents an item up for auction
type Listing struct {
	ListingID     string    `json:"listing_id" gorm:"primaryKey"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartingPrice float64   `json:"starting_price"`
	CategoryID    string    `json:"category_id,omitempty" gorm:"index"`
	AuthorID      string    `json:"author_id" gorm:"index"`
	PictureURL    string    `json:"picture_url,omitempty"`
	Active        bool      `json:"active"`
	Version       int64     `json:"-"` // bumped on every accepted bid and on close
	CreatedAt     time.Time `json:"created_at"`
}

// Bid represents a user's bid on a listing. Bids are append-only: never
// edited or deleted after acceptance.
type Bid struct {
	BidID     string    `json:"bid_id" gorm:"primaryKey"`
	ListingID string    `json:"listing_id" gorm:"index"`
	BidderID  string    `json:"bidder_id" gorm:"index"`
	Amount    float64   `json:"amount"`
	Seq       int64     `json:"seq" gorm:"index"` // per-listing acceptance order; breaks timestamp ties
	CreatedAt time.Time `json:"created_at"`
}

// Category groups listings for browsing
type Category struct {
	CategoryID string    `json:"category_id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"uniqueIndex"`
	CreatedAt  time.Time `json:"created_at"`
}

// Comment represents a user's comment on a listing
type Comment struct {
	CommentID string    `json:"comment_id" gorm:"primaryKey"`
	ListingID string    `json:"listing_id" gorm:"index"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// WatchlistEntry marks a listing a user is watching. At most one entry
// exists per (user, listing) pair.
type WatchlistEntry struct {
	EntryID   string    `json:"entry_id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index:idx_watch_user_listing,unique"`
	ListingID string    `json:"listing_id" gorm:"index:idx_watch_user_listing,unique"`
	CreatedAt time.Time `json:"created_at"`
}
