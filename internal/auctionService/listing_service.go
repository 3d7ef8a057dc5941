package auction

import (
	"errors"
	"fmt"
	"math"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/utils"
)

// CreateListingInput carries the fields a user submits for a new listing.
// CategoryID and PictureURL are optional.
type CreateListingInput struct {
	Title         string
	Description   string
	StartingPrice float64
	CategoryID    string
	PictureURL    string
	AuthorID      string
}

// CreateListing validates and stores a new active listing
func (s *AuctionService) CreateListing(in CreateListingInput) (models.Listing, error) {
	if in.Title == "" || in.AuthorID == "" {
		return models.Listing{}, fmt.Errorf("service: %w - missing title or authorID", auctionerrors.ErrInvalidListing)
	}
	if in.StartingPrice <= 0 || math.IsInf(in.StartingPrice, 0) || math.IsNaN(in.StartingPrice) {
		return models.Listing{}, fmt.Errorf("service: %w - starting price must be a positive finite number", auctionerrors.ErrInvalidListing)
	}

	if in.CategoryID != "" {
		if _, err := s.repo.GetCategory(in.CategoryID); err != nil {
			return models.Listing{}, fmt.Errorf("service: failed to resolve category %s: %w", in.CategoryID, err)
		}
	}

	listing := models.Listing{
		ListingID:     utils.GenerateID(),
		Title:         in.Title,
		Description:   in.Description,
		StartingPrice: in.StartingPrice,
		CategoryID:    in.CategoryID,
		PictureURL:    in.PictureURL,
		AuthorID:      in.AuthorID,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateListing(listing); err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to create listing for user %s: %w", in.AuthorID, err)
	}

	return listing, nil
}

// GetListing returns a listing together with whether the viewer is watching
// it. An empty viewerID skips the watchlist lookup.
func (s *AuctionService) GetListing(listingID, viewerID string) (models.Listing, bool, error) {
	if listingID == "" {
		return models.Listing{}, false, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidListing)
	}

	listing, err := s.repo.GetListing(listingID)
	if err != nil {
		return models.Listing{}, false, fmt.Errorf("service: failed to get listing %s: %w", listingID, err)
	}

	watched := false
	if viewerID != "" {
		watched, err = s.repo.IsWatching(viewerID, listingID)
		if err != nil {
			return models.Listing{}, false, fmt.Errorf("service: failed to check watchlist for user %s: %w", viewerID, err)
		}
	}

	return listing, watched, nil
}

// BrowseListings returns all listings, newest first
func (s *AuctionService) BrowseListings() ([]models.Listing, error) {
	listings, err := s.repo.ListListings()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list listings: %w", err)
	}
	return listings, nil
}

// BrowseByCategory returns all listings in the named category, newest first
func (s *AuctionService) BrowseByCategory(name string) ([]models.Listing, error) {
	if name == "" {
		return nil, fmt.Errorf("service: %w - empty category name", auctionerrors.ErrInvalidListing)
	}

	category, err := s.repo.GetCategoryByName(name)
	if err != nil {
		return nil, fmt.Errorf("service: failed to resolve category %q: %w", name, err)
	}

	listings, err := s.repo.ListListingsByCategory(category.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list listings for category %q: %w", name, err)
	}
	return listings, nil
}

// CloseListing transitions a listing from active to closed. Only the author
// may close, and only once; closed is terminal. The author/active checks run
// against a version the close then asserts, so a racing bid forces a re-check
// rather than a silent flip over changed state.
func (s *AuctionService) CloseListing(listingID, requesterID string) (models.Listing, error) {
	if listingID == "" || requesterID == "" {
		return models.Listing{}, fmt.Errorf("service: %w - missing listingID or requesterID", auctionerrors.ErrInvalidListing)
	}

	var lastErr error
	for attempt := 0; attempt < s.retryLimit; attempt++ {
		listing, err := s.repo.GetListing(listingID)
		if err != nil {
			return models.Listing{}, fmt.Errorf("service: failed to load listing %s: %w", listingID, err)
		}
		if listing.AuthorID != requesterID {
			return models.Listing{}, fmt.Errorf("service: %w - user %s did not create listing %s", auctionerrors.ErrNotAuthor, requesterID, listingID)
		}
		if !listing.Active {
			return models.Listing{}, fmt.Errorf("service: %w - listing %s", auctionerrors.ErrAlreadyClosed, listingID)
		}

		err = s.repo.CloseListing(listingID, listing.Version)
		if err == nil {
			listing.Active = false
			listing.Version++
			return listing, nil
		}
		if !errors.Is(err, auctionerrors.ErrWriteConflict) {
			return models.Listing{}, fmt.Errorf("service: failed to close listing %s: %w", listingID, err)
		}
		lastErr = err
	}

	return models.Listing{}, fmt.Errorf("service: close of listing %s lost %d races: %w", listingID, s.retryLimit, lastErr)
}
