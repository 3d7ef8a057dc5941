package auction

import (
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/utils"
)

// CreateCategory stores a new category with a unique name
func (s *AuctionService) CreateCategory(name string) (models.Category, error) {
	if name == "" {
		return models.Category{}, fmt.Errorf("service: %w - empty category name", auctionerrors.ErrInvalidListing)
	}

	category := models.Category{
		CategoryID: utils.GenerateID(),
		Name:       name,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.CreateCategory(category); err != nil {
		return models.Category{}, fmt.Errorf("service: failed to create category %q: %w", name, err)
	}

	return category, nil
}

// ListCategories returns all categories sorted by name
func (s *AuctionService) ListCategories() ([]models.Category, error) {
	categories, err := s.repo.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}
	return categories, nil
}

// AddComment validates and stores a user's comment on a listing
func (s *AuctionService) AddComment(listingID, authorID, content string) (models.Comment, error) {
	if listingID == "" || authorID == "" || content == "" {
		return models.Comment{}, fmt.Errorf("service: %w - missing listingID, authorID or content", auctionerrors.ErrInvalidListing)
	}

	comment := models.Comment{
		CommentID: utils.GenerateID(),
		ListingID: listingID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateComment(comment); err != nil {
		return models.Comment{}, fmt.Errorf("service: failed to add comment to listing %s: %w", listingID, err)
	}

	return comment, nil
}

// GetComments returns all comments for a listing in creation order
func (s *AuctionService) GetComments(listingID string) ([]models.Comment, error) {
	if listingID == "" {
		return nil, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidListing)
	}

	comments, err := s.repo.GetCommentsByListing(listingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get comments for listing %s: %w", listingID, err)
	}
	return comments, nil
}

// ToggleWatch adds the listing to the user's watchlist if absent, removes it
// if present, and reports whether the user is watching afterwards.
func (s *AuctionService) ToggleWatch(userID, listingID string) (bool, error) {
	if userID == "" || listingID == "" {
		return false, fmt.Errorf("service: %w - missing userID or listingID", auctionerrors.ErrInvalidListing)
	}

	watching, err := s.repo.IsWatching(userID, listingID)
	if err != nil {
		return false, fmt.Errorf("service: failed to check watchlist for user %s: %w", userID, err)
	}

	if watching {
		if err := s.repo.RemoveWatch(userID, listingID); err != nil {
			return false, fmt.Errorf("service: failed to remove watch for user %s: %w", userID, err)
		}
		return false, nil
	}

	entry := models.WatchlistEntry{
		EntryID:   utils.GenerateID(),
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddWatch(entry); err != nil {
		return false, fmt.Errorf("service: failed to add watch for user %s: %w", userID, err)
	}
	return true, nil
}

// Watchlist returns all listings the user is watching, newest first
func (s *AuctionService) Watchlist(userID string) ([]models.Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidListing)
	}

	listings, err := s.repo.GetWatchedListings(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get watchlist for user %s: %w", userID, err)
	}
	return listings, nil
}
