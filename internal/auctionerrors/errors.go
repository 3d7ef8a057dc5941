package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrNoBids           = errors.New("no bids found for listing")
	ErrNoWatches        = errors.New("user is not watching any listings")
	ErrWriteConflict    = errors.New("concurrent write conflict")
)

// business logic errors
var (
	ErrInvalidBid     = errors.New("invalid bid")
	ErrInvalidListing = errors.New("invalid listing")
	ErrBidTooLow      = errors.New("bid amount too low")
	ErrListingClosed  = errors.New("listing is closed")
	ErrNotAuthor      = errors.New("requester is not the listing author")
	ErrAlreadyClosed  = errors.New("listing already closed")
)
