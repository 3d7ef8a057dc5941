package handler

import (
	auction "auction-house/internal/auctionService"
	model "auction-house/internal/models"
)

type AuctionServiceInterface interface {
	PlaceBid(listingID, bidderID string, amount float64) (model.Bid, error)
	GetBidsForListing(listingID string) ([]model.Bid, error)
	WinningBid(listingID string) (model.Bid, error)
	BidderStanding(listingID, bidderID string) (model.Bid, error)
	CurrentPrice(listingID string) (float64, error)

	CreateListing(in auction.CreateListingInput) (model.Listing, error)
	GetListing(listingID, viewerID string) (model.Listing, bool, error)
	BrowseListings() ([]model.Listing, error)
	BrowseByCategory(name string) ([]model.Listing, error)
	CloseListing(listingID, requesterID string) (model.Listing, error)

	CreateCategory(name string) (model.Category, error)
	ListCategories() ([]model.Category, error)
	AddComment(listingID, authorID, content string) (model.Comment, error)
	GetComments(listingID string) ([]model.Comment, error)
	ToggleWatch(userID, listingID string) (bool, error)
	Watchlist(userID string) ([]model.Listing, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}
