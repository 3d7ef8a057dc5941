package repository

import (
	"fmt"
	"sort"
	"sync"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
)

// AuctionDB defines the persistence interface for the auction marketplace.
//
// RecordBid and CloseListing take the listing version the caller read before
// deciding to mutate. If the stored version no longer matches, the write is
// refused with ErrWriteConflict and no state changes. This is what keeps the
// read-compare-write region of bid validation atomic across implementations.
type AuctionDB interface {
	CreateListing(listing model.Listing) error
	GetListing(listingID string) (model.Listing, error)
	ListListings() ([]model.Listing, error)
	ListListingsByCategory(categoryID string) ([]model.Listing, error)
	CloseListing(listingID string, expectedVersion int64) error

	RecordBid(bid model.Bid, expectedVersion int64) (model.Bid, error)
	GetBidsByListing(listingID string) ([]model.Bid, error)
	GetLatestBid(listingID string) (model.Bid, error)

	CreateCategory(category model.Category) error
	GetCategory(categoryID string) (model.Category, error)
	GetCategoryByName(name string) (model.Category, error)
	ListCategories() ([]model.Category, error)

	CreateComment(comment model.Comment) error
	GetCommentsByListing(listingID string) ([]model.Comment, error)

	IsWatching(userID, listingID string) (bool, error)
	AddWatch(entry model.WatchlistEntry) error
	RemoveWatch(userID, listingID string) error
	GetWatchedListings(userID string) ([]model.Listing, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu         sync.RWMutex
	listings   map[string]model.Listing         // key: listingID
	bids       map[string][]model.Bid           // key: listingID -> bids in acceptance order
	categories map[string]model.Category        // key: categoryID
	catNames   map[string]string                // key: category name -> categoryID
	comments   map[string][]model.Comment       // key: listingID -> comments in creation order
	watches    map[string]map[string]model.WatchlistEntry // key: userID -> listingID -> entry
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		listings:   make(map[string]model.Listing),
		bids:       make(map[string][]model.Bid),
		categories: make(map[string]model.Category),
		catNames:   make(map[string]string),
		comments:   make(map[string][]model.Comment),
		watches:    make(map[string]map[string]model.WatchlistEntry),
	}
}

// CreateListing stores a new listing record
func (r *MemoryRepo) CreateListing(listing model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.CategoryID != "" {
		if _, ok := r.categories[listing.CategoryID]; !ok {
			return fmt.Errorf("create listing %s: %w", listing.ListingID, auctionerrors.ErrCategoryNotFound)
		}
	}

	r.listings[listing.ListingID] = listing
	return nil
}

// GetListing returns a listing by ID
func (r *MemoryRepo) GetListing(listingID string) (model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return listing, nil
}

// ListListings returns all listings, newest first
func (r *MemoryRepo) ListListings() ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := make([]model.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		listings = append(listings, l)
	}
	sortListingsNewestFirst(listings)
	return listings, nil
}

// ListListingsByCategory returns all listings in a category, newest first
func (r *MemoryRepo) ListListingsByCategory(categoryID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.categories[categoryID]; !ok {
		return nil, fmt.Errorf("list listings for category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}

	var listings []model.Listing
	for _, l := range r.listings {
		if l.CategoryID == categoryID {
			listings = append(listings, l)
		}
	}
	sortListingsNewestFirst(listings)
	return listings, nil
}

// CloseListing flips the active flag off if the caller's version is current
func (r *MemoryRepo) CloseListing(listingID string, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return fmt.Errorf("close listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if listing.Version != expectedVersion {
		return fmt.Errorf("close listing %s: version %d is stale: %w", listingID, expectedVersion, auctionerrors.ErrWriteConflict)
	}

	listing.Active = false
	listing.Version++
	r.listings[listingID] = listing
	return nil
}

// RecordBid appends a bid to the listing's ledger if the caller's version is
// current, and returns the stored bid with its acceptance sequence assigned.
func (r *MemoryRepo) RecordBid(bid model.Bid, expectedVersion int64) (model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[bid.ListingID]
	if !ok {
		return model.Bid{}, fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrListingNotFound)
	}
	if listing.Version != expectedVersion {
		return model.Bid{}, fmt.Errorf("record bid for listing %s: version %d is stale: %w", bid.ListingID, expectedVersion, auctionerrors.ErrWriteConflict)
	}

	listing.Version++
	bid.Seq = listing.Version
	r.listings[bid.ListingID] = listing
	r.bids[bid.ListingID] = append(r.bids[bid.ListingID], bid)

	return bid, nil
}

// GetBidsByListing returns all bids for a listing in acceptance order
func (r *MemoryRepo) GetBidsByListing(listingID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return append([]model.Bid(nil), r.bids[listingID]...), nil
}

// GetLatestBid returns the most recently accepted bid for a listing
func (r *MemoryRepo) GetLatestBid(listingID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return model.Bid{}, fmt.Errorf("get latest bid for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}

	bids := r.bids[listingID]
	if len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get latest bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}

	latest := bids[0]
	for _, b := range bids[1:] {
		if b.Seq > latest.Seq {
			latest = b
		}
	}
	return latest, nil
}

// CreateCategory stores a new category with a unique name
func (r *MemoryRepo) CreateCategory(category model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.catNames[category.Name]; ok {
		return fmt.Errorf("create category %q: %w", category.Name, auctionerrors.ErrCategoryExists)
	}

	r.categories[category.CategoryID] = category
	r.catNames[category.Name] = category.CategoryID
	return nil
}

// GetCategory returns a category by ID
func (r *MemoryRepo) GetCategory(categoryID string) (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[categoryID]
	if !ok {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}
	return category, nil
}

// GetCategoryByName returns a category by its unique name
func (r *MemoryRepo) GetCategoryByName(name string) (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.catNames[name]
	if !ok {
		return model.Category{}, fmt.Errorf("get category %q: %w", name, auctionerrors.ErrCategoryNotFound)
	}
	return r.categories[id], nil
}

// ListCategories returns all categories sorted by name
func (r *MemoryRepo) ListCategories() ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// CreateComment appends a comment to a listing
func (r *MemoryRepo) CreateComment(comment model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[comment.ListingID]; !ok {
		return fmt.Errorf("create comment for listing %s: %w", comment.ListingID, auctionerrors.ErrListingNotFound)
	}

	r.comments[comment.ListingID] = append(r.comments[comment.ListingID], comment)
	return nil
}

// GetCommentsByListing returns all comments for a listing in creation order
func (r *MemoryRepo) GetCommentsByListing(listingID string) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return nil, fmt.Errorf("get comments for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return append([]model.Comment(nil), r.comments[listingID]...), nil
}

// IsWatching reports whether a user is watching a listing
func (r *MemoryRepo) IsWatching(userID, listingID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, ok := r.watches[userID]
	if !ok {
		return false, nil
	}
	_, watching := entries[listingID]
	return watching, nil
}

// AddWatch records a watchlist entry for a user and listing
func (r *MemoryRepo) AddWatch(entry model.WatchlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[entry.ListingID]; !ok {
		return fmt.Errorf("watch listing %s: %w", entry.ListingID, auctionerrors.ErrListingNotFound)
	}

	if r.watches[entry.UserID] == nil {
		r.watches[entry.UserID] = make(map[string]model.WatchlistEntry)
	}
	r.watches[entry.UserID][entry.ListingID] = entry
	return nil
}

// RemoveWatch removes a user's watchlist entry for a listing
func (r *MemoryRepo) RemoveWatch(userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.watches[userID], listingID)
	return nil
}

// GetWatchedListings returns all listings on a user's watchlist, newest first
func (r *MemoryRepo) GetWatchedListings(userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, ok := r.watches[userID]
	if !ok || len(entries) == 0 {
		return nil, fmt.Errorf("get watchlist for user %s: %w", userID, auctionerrors.ErrNoWatches)
	}

	listings := make([]model.Listing, 0, len(entries))
	for listingID := range entries {
		if l, exists := r.listings[listingID]; exists {
			listings = append(listings, l)
		}
	}
	sortListingsNewestFirst(listings)
	return listings, nil
}

func sortListingsNewestFirst(listings []model.Listing) {
	sort.Slice(listings, func(i, j int) bool {
		if listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
			return listings[i].ListingID > listings[j].ListingID
		}
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}
