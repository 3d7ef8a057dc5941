package auction

import (
	"errors"
	"fmt"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
)

// The read-model projections below are always recomputed from the bid ledger;
// nothing here caches a price that could drift from the recorded bids.

// CurrentPrice returns the amount of the listing's latest accepted bid, or
// its starting price if no bids exist.
func (s *AuctionService) CurrentPrice(listingID string) (float64, error) {
	if listingID == "" {
		return 0, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidListing)
	}

	listing, err := s.repo.GetListing(listingID)
	if err != nil {
		return 0, fmt.Errorf("service: failed to load listing %s: %w", listingID, err)
	}

	price, err := s.currentPriceOf(listing)
	if err != nil {
		return 0, fmt.Errorf("service: failed to compute current price for listing %s: %w", listingID, err)
	}
	return price, nil
}

// WinningBid returns the latest accepted bid for a listing. The winner is the
// latest bid, not the maximum: acceptance requires strictly beating the
// running price, so the latest accepted bid is also the highest.
func (s *AuctionService) WinningBid(listingID string) (models.Bid, error) {
	if listingID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidListing)
	}

	bid, err := s.repo.GetLatestBid(listingID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for listing %s: %w", listingID, err)
	}
	return bid, nil
}

// BidderStanding returns the given bidder's own highest bid on a listing, or
// ErrNoBids if they have not bid on it.
func (s *AuctionService) BidderStanding(listingID, bidderID string) (models.Bid, error) {
	if listingID == "" || bidderID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing listingID or bidderID", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByListing(listingID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get bids for listing %s: %w", listingID, err)
	}

	var best models.Bid
	found := false
	for _, b := range bids {
		if b.BidderID != bidderID {
			continue
		}
		if !found || b.Amount > best.Amount {
			best = b
			found = true
		}
	}
	if !found {
		return models.Bid{}, fmt.Errorf("service: user %s has no bids on listing %s: %w", bidderID, listingID, auctionerrors.ErrNoBids)
	}
	return best, nil
}

// currentPriceOf folds the starting price and the ledger into one value: the
// latest accepted bid wins, the starting price is the floor.
func (s *AuctionService) currentPriceOf(listing models.Listing) (float64, error) {
	latest, err := s.repo.GetLatestBid(listing.ListingID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNoBids) {
			return listing.StartingPrice, nil
		}
		return 0, err
	}
	return latest.Amount, nil
}
