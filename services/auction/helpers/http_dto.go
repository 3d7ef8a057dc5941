package helpers

import (
	"time"

	model "auction-house/internal/models"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	ListingID string  `json:"listing_id" binding:"required"`
	UserID    string  `json:"user_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	ListingID string  `json:"listing_id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	Seq       int64   `json:"seq"`
	CreatedAt string  `json:"created_at"`
}

type CreateListingRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	StartingPrice float64 `json:"starting_price" binding:"required,gt=0"`
	CategoryID    string  `json:"category_id"`
	PictureURL    string  `json:"picture_url" binding:"omitempty,url"`
	UserID        string  `json:"user_id" binding:"required"`
}

type CloseListingRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type ListingResponse struct {
	ListingID     string  `json:"listing_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	StartingPrice float64 `json:"starting_price"`
	CurrentPrice  float64 `json:"current_price"`
	CategoryID    string  `json:"category_id,omitempty"`
	PictureURL    string  `json:"picture_url,omitempty"`
	AuthorID      string  `json:"author_id"`
	Active        bool    `json:"active"`
	Watched       bool    `json:"watched"`
	CreatedAt     string  `json:"created_at"`
}

type PriceResponse struct {
	ListingID    string  `json:"listing_id"`
	CurrentPrice float64 `json:"current_price"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddCommentRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	UserID    string `json:"user_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

type ToggleWatchRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	UserID    string `json:"user_id" binding:"required"`
}

type WatchResponse struct {
	ListingID string `json:"listing_id"`
	UserID    string `json:"user_id"`
	Watching  bool   `json:"watching"`
}

// NewBidResponse converts a bid model to its response shape
func NewBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		ListingID: bid.ListingID,
		UserID:    bid.BidderID,
		Amount:    bid.Amount,
		Seq:       bid.Seq,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewListingResponse converts a listing model plus its projected current
// price and viewer watch state to the response shape
func NewListingResponse(listing model.Listing, currentPrice float64, watched bool) ListingResponse {
	return ListingResponse{
		ListingID:     listing.ListingID,
		Title:         listing.Title,
		Description:   listing.Description,
		StartingPrice: listing.StartingPrice,
		CurrentPrice:  currentPrice,
		CategoryID:    listing.CategoryID,
		PictureURL:    listing.PictureURL,
		AuthorID:      listing.AuthorID,
		Active:        listing.Active,
		Watched:       watched,
		CreatedAt:     listing.CreatedAt.UTC().Format(time.RFC3339),
	}
}
