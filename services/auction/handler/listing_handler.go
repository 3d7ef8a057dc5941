package handler

import (
	"fmt"
	"net/http"

	auction "auction-house/internal/auctionService"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// CreateListingHandler handles POST /listings
func (h *AuctionHandler) CreateListingHandler(c *gin.Context) {
	var req helpers.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	listing, err := h.service.CreateListing(auction.CreateListingInput{
		Title:         req.Title,
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		CategoryID:    req.CategoryID,
		PictureURL:    req.PictureURL,
		AuthorID:      req.UserID,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateListingHandler: failed to create listing", map[string]any{
			"handler": "CreateListingHandler",
			"user_id": req.UserID,
			"error":   err.Error(),
		})
		return
	}

	resp := helpers.NewListingResponse(listing, listing.StartingPrice, false)
	utils.JSONResponse(c, http.StatusCreated, resp, "listing created successfully")
	helpers.LogSuccess("CreateListingHandler", "listing created successfully", map[string]any{
		"listing_id": listing.ListingID,
		"user_id":    req.UserID,
		"title":      listing.Title,
	})
}

// GetListingHandler handles GET /listings/:listing_id. An optional ?viewer=
// query names the user whose watch state should be reported.
func (h *AuctionHandler) GetListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	viewerID := c.Query("viewer")

	listing, watched, err := h.service.GetListing(listingID, viewerID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetListingHandler: error retrieving listing", map[string]any{"listing_id": listingID, "error": err.Error()})
		return
	}

	price, err := h.service.CurrentPrice(listingID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetListingHandler: error computing current price", map[string]any{"listing_id": listingID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponse(listing, price, watched), "listing retrieved successfully")
}

// BrowseListingsHandler handles GET /listings with an optional ?category=
// name filter.
func (h *AuctionHandler) BrowseListingsHandler(c *gin.Context) {
	category := c.Query("category")

	var listings []model.Listing
	var err error
	if category != "" {
		listings, err = h.service.BrowseByCategory(category)
	} else {
		listings, err = h.service.BrowseListings()
	}
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("BrowseListingsHandler: error retrieving listings", map[string]any{"category": category, "error": err.Error()})
		return
	}

	resp := make([]helpers.ListingResponse, 0, len(listings))
	for _, l := range listings {
		price, err := h.service.CurrentPrice(l.ListingID)
		if err != nil {
			price = l.StartingPrice
		}
		resp = append(resp, helpers.NewListingResponse(l, price, false))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "listings retrieved successfully")
	helpers.LogSuccess("BrowseListingsHandler", "listings retrieved successfully", map[string]any{
		"category": category,
		"count":    len(resp),
	})
}

// CloseListingHandler handles POST /listings/:listing_id/close
func (h *AuctionHandler) CloseListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")

	var req helpers.CloseListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CloseListingHandler", err)
		return
	}

	listing, err := h.service.CloseListing(listingID, req.UserID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CloseListingHandler: failed to close listing", map[string]any{
			"handler":    "CloseListingHandler",
			"listing_id": listingID,
			"user_id":    req.UserID,
			"error":      err.Error(),
		})
		return
	}

	price, err := h.service.CurrentPrice(listingID)
	if err != nil {
		price = listing.StartingPrice
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponse(listing, price, false), "listing closed successfully")
	helpers.LogSuccess("CloseListingHandler", "listing closed successfully", map[string]any{
		"listing_id": listing.ListingID,
		"user_id":    req.UserID,
	})
}
