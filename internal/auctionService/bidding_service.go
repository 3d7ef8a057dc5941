package auction

import (
	"errors"
	"fmt"
	"math"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
)

// defaultRetryLimit bounds how often a lost optimistic-write race is retried
// before the conflict surfaces to the caller.
const defaultRetryLimit = 3

// AuctionService defines the business logic for the auction marketplace
type AuctionService struct {
	repo       repository.AuctionDB
	retryLimit int
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.AuctionDB, opts ...Option) *AuctionService {
	svc := &AuctionService{
		repo:       repo,
		retryLimit: defaultRetryLimit,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type Option func(*AuctionService)

// WithRetryLimit overrides the number of attempts made when a write loses a
// concurrent race.
func WithRetryLimit(n int) Option {
	return func(s *AuctionService) {
		if n > 0 {
			s.retryLimit = n
		}
	}
}

// PlaceBid validates and records a user's bid on a listing.
//
// The listing state and current price are read, the amount compared, and the
// bid appended against the version that was read. If another bid (or a close)
// committed in between, the append fails with a write conflict and the whole
// read-compare-write sequence is re-run against fresh state, up to the retry
// limit. A bid therefore never lands on top of state it wasn't compared with.
func (s *AuctionService) PlaceBid(listingID, bidderID string, amount float64) (models.Bid, error) {
	if listingID == "" || bidderID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing listingID or bidderID", auctionerrors.ErrInvalidBid)
	}
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return models.Bid{}, fmt.Errorf("service: %w - bid amount must be a positive finite number", auctionerrors.ErrInvalidBid)
	}

	var lastErr error
	for attempt := 0; attempt < s.retryLimit; attempt++ {
		listing, err := s.repo.GetListing(listingID)
		if err != nil {
			return models.Bid{}, fmt.Errorf("service: failed to load listing %s: %w", listingID, err)
		}
		if !listing.Active {
			return models.Bid{}, fmt.Errorf("service: %w - listing %s no longer accepts bids", auctionerrors.ErrListingClosed, listingID)
		}

		current, err := s.currentPriceOf(listing)
		if err != nil {
			return models.Bid{}, fmt.Errorf("service: failed to compute current price for listing %s: %w", listingID, err)
		}
		if amount <= current {
			return models.Bid{}, fmt.Errorf("service: %w - current price is %.2f", auctionerrors.ErrBidTooLow, current)
		}

		bid := models.Bid{
			BidID:     utils.GenerateID(),
			ListingID: listingID,
			BidderID:  bidderID,
			Amount:    amount,
			CreatedAt: time.Now().UTC(),
		}

		stored, err := s.repo.RecordBid(bid, listing.Version)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, auctionerrors.ErrWriteConflict) {
			return models.Bid{}, fmt.Errorf("service: failed to record bid for listing %s by user %s: %w", listingID, bidderID, err)
		}
		lastErr = err
	}

	return models.Bid{}, fmt.Errorf("service: bid on listing %s lost %d races: %w", listingID, s.retryLimit, lastErr)
}

// GetBidsForListing returns all bids for a listing in acceptance order
func (s *AuctionService) GetBidsForListing(listingID string) ([]models.Bid, error) {
	if listingID == "" {
		return nil, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByListing(listingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for listing %s: %w", listingID, err)
	}

	return bids, nil
}
