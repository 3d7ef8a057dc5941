package handler

import (
	"errors"
	"fmt"
	"net/http"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// CreateCategoryHandler handles POST /categories
func (h *AuctionHandler) CreateCategoryHandler(c *gin.Context) {
	var req helpers.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateCategoryHandler", err)
		return
	}

	category, err := h.service.CreateCategory(req.Name)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CreateCategoryHandler: failed to create category", map[string]any{"name": req.Name, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, category, "category created successfully")
	helpers.LogSuccess("CreateCategoryHandler", "category created successfully", map[string]any{
		"category_id": category.CategoryID,
		"name":        category.Name,
	})
}

// ListCategoriesHandler handles GET /categories
func (h *AuctionHandler) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.service.ListCategories()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListCategoriesHandler: error retrieving categories", map[string]any{"error": err.Error()})
		return
	}

	if categories == nil {
		categories = []model.Category{}
	}

	utils.JSONResponse(c, http.StatusOK, categories, "categories retrieved successfully")
}

// AddCommentHandler handles POST /comments
func (h *AuctionHandler) AddCommentHandler(c *gin.Context) {
	var req helpers.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddCommentHandler", err)
		return
	}

	comment, err := h.service.AddComment(req.ListingID, req.UserID, req.Content)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("AddCommentHandler: failed to add comment", map[string]any{
			"listing_id": req.ListingID,
			"user_id":    req.UserID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, comment, "comment added successfully")
	helpers.LogSuccess("AddCommentHandler", "comment added successfully", map[string]any{
		"comment_id": comment.CommentID,
		"listing_id": comment.ListingID,
		"user_id":    comment.AuthorID,
	})
}

// GetCommentsHandler handles GET /listings/:listing_id/comments
func (h *AuctionHandler) GetCommentsHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	comments, err := h.service.GetComments(listingID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetCommentsHandler: error retrieving comments", map[string]any{"listing_id": listingID, "error": err.Error()})
		return
	}

	if comments == nil {
		comments = []model.Comment{}
	}

	utils.JSONResponse(c, http.StatusOK, comments, "comments retrieved successfully")
}

// ToggleWatchHandler handles POST /watchlist
func (h *AuctionHandler) ToggleWatchHandler(c *gin.Context) {
	var req helpers.ToggleWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ToggleWatchHandler", err)
		return
	}

	watching, err := h.service.ToggleWatch(req.UserID, req.ListingID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ToggleWatchHandler: failed to toggle watch", map[string]any{
			"listing_id": req.ListingID,
			"user_id":    req.UserID,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.WatchResponse{ListingID: req.ListingID, UserID: req.UserID, Watching: watching}
	utils.JSONResponse(c, http.StatusOK, resp, "watchlist updated successfully")
	helpers.LogSuccess("ToggleWatchHandler", "watchlist updated successfully", map[string]any{
		"listing_id": req.ListingID,
		"user_id":    req.UserID,
		"watching":   watching,
	})
}

// GetWatchlistHandler handles GET /users/:user_id/watchlist
func (h *AuctionHandler) GetWatchlistHandler(c *gin.Context) {
	userID := c.Param("user_id")
	listings, err := h.service.Watchlist(userID)
	if err != nil && !errors.Is(err, auctionerrors.ErrNoWatches) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetWatchlistHandler: error retrieving watchlist", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}

	utils.JSONResponse(c, http.StatusOK, listings, "watchlist retrieved successfully")
	helpers.LogSuccess("GetWatchlistHandler", "watchlist retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(listings),
	})
}
