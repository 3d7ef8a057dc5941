package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is a SQLite-backed implementation of repository.AuctionDB.
//
// The version-guarded writes (RecordBid, CloseListing) run inside a single
// gorm transaction: the listing row is updated with a
// `WHERE listing_id = ? AND version = ?` predicate, so a concurrent writer
// that committed first leaves RowsAffected at zero and the whole transaction
// rolls back with ErrWriteConflict.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the SQLite database at path and migrates the
// auction schema.
func NewStorage(path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Listing{},
		&model.Bid{},
		&model.Category{},
		&model.Comment{},
		&model.WatchlistEntry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// ======================================================================================
// Listing Operations
// ======================================================================================

func (s *Storage) CreateListing(listing model.Listing) error {
	if listing.CategoryID != "" {
		if _, err := s.GetCategory(listing.CategoryID); err != nil {
			return err
		}
	}
	return s.db.Create(&listing).Error
}

func (s *Storage) GetListing(listingID string) (model.Listing, error) {
	var listing model.Listing
	err := s.db.First(&listing, "listing_id = ?", listingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Listing{}, err
	}
	return listing, nil
}

func (s *Storage) ListListings() ([]model.Listing, error) {
	var listings []model.Listing
	err := s.db.Order("created_at DESC, listing_id DESC").Find(&listings).Error
	return listings, err
}

func (s *Storage) ListListingsByCategory(categoryID string) ([]model.Listing, error) {
	if _, err := s.GetCategory(categoryID); err != nil {
		return nil, err
	}
	var listings []model.Listing
	err := s.db.Where("category_id = ?", categoryID).
		Order("created_at DESC, listing_id DESC").Find(&listings).Error
	return listings, err
}

func (s *Storage) CloseListing(listingID string, expectedVersion int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var listing model.Listing
		if err := tx.First(&listing, "listing_id = ?", listingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("close listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
			}
			return err
		}

		res := tx.Model(&model.Listing{}).
			Where("listing_id = ? AND version = ?", listingID, expectedVersion).
			Updates(map[string]any{"active": false, "version": expectedVersion + 1})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("close listing %s: version %d is stale: %w", listingID, expectedVersion, auctionerrors.ErrWriteConflict)
		}
		return nil
	})
}

// ======================================================================================
// Bid Operations
// ======================================================================================

func (s *Storage) RecordBid(bid model.Bid, expectedVersion int64) (model.Bid, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var listing model.Listing
		if err := tx.First(&listing, "listing_id = ?", bid.ListingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("record bid for listing %s: %w", bid.ListingID, auctionerrors.ErrListingNotFound)
			}
			return err
		}

		res := tx.Model(&model.Listing{}).
			Where("listing_id = ? AND version = ?", bid.ListingID, expectedVersion).
			Update("version", expectedVersion+1)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("record bid for listing %s: version %d is stale: %w", bid.ListingID, expectedVersion, auctionerrors.ErrWriteConflict)
		}

		bid.Seq = expectedVersion + 1
		return tx.Create(&bid).Error
	})
	if err != nil {
		return model.Bid{}, err
	}
	return bid, nil
}

func (s *Storage) GetBidsByListing(listingID string) ([]model.Bid, error) {
	if _, err := s.GetListing(listingID); err != nil {
		return nil, err
	}
	var bids []model.Bid
	err := s.db.Where("listing_id = ?", listingID).Order("seq ASC").Find(&bids).Error
	return bids, err
}

func (s *Storage) GetLatestBid(listingID string) (model.Bid, error) {
	if _, err := s.GetListing(listingID); err != nil {
		return model.Bid{}, err
	}
	var bid model.Bid
	err := s.db.Where("listing_id = ?", listingID).Order("seq DESC").First(&bid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Bid{}, fmt.Errorf("get latest bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, err
	}
	return bid, nil
}

// ======================================================================================
// Category Operations
// ======================================================================================

func (s *Storage) CreateCategory(category model.Category) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("create category %q: %w", category.Name, auctionerrors.ErrCategoryExists)
		}
		return tx.Create(&category).Error
	})
}

func (s *Storage) GetCategory(categoryID string) (model.Category, error) {
	var category model.Category
	err := s.db.First(&category, "category_id = ?", categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}
	if err != nil {
		return model.Category{}, err
	}
	return category, nil
}

func (s *Storage) GetCategoryByName(name string) (model.Category, error) {
	var category model.Category
	err := s.db.First(&category, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, fmt.Errorf("get category %q: %w", name, auctionerrors.ErrCategoryNotFound)
	}
	if err != nil {
		return model.Category{}, err
	}
	return category, nil
}

func (s *Storage) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	err := s.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// ======================================================================================
// Comment Operations
// ======================================================================================

func (s *Storage) CreateComment(comment model.Comment) error {
	if _, err := s.GetListing(comment.ListingID); err != nil {
		return err
	}
	return s.db.Create(&comment).Error
}

func (s *Storage) GetCommentsByListing(listingID string) ([]model.Comment, error) {
	if _, err := s.GetListing(listingID); err != nil {
		return nil, err
	}
	var comments []model.Comment
	err := s.db.Where("listing_id = ?", listingID).Order("created_at ASC, comment_id ASC").Find(&comments).Error
	return comments, err
}

// ======================================================================================
// Watchlist Operations
// ======================================================================================

func (s *Storage) IsWatching(userID, listingID string) (bool, error) {
	var count int64
	err := s.db.Model(&model.WatchlistEntry{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).Count(&count).Error
	return count > 0, err
}

func (s *Storage) AddWatch(entry model.WatchlistEntry) error {
	if _, err := s.GetListing(entry.ListingID); err != nil {
		return err
	}
	return s.db.Create(&entry).Error
}

func (s *Storage) RemoveWatch(userID, listingID string) error {
	return s.db.Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&model.WatchlistEntry{}).Error
}

func (s *Storage) GetWatchedListings(userID string) ([]model.Listing, error) {
	var entries []model.WatchlistEntry
	if err := s.db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("get watchlist for user %s: %w", userID, auctionerrors.ErrNoWatches)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ListingID)
	}

	var listings []model.Listing
	err := s.db.Where("listing_id IN ?", ids).
		Order("created_at DESC, listing_id DESC").Find(&listings).Error
	return listings, err
}
