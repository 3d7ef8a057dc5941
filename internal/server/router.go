package server

import (
	auction "auction-house/internal/auctionService"
	handler "auction-house/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *auction.AuctionService) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)

	bids := router.Group("/bids")
	{
		bids.POST("", auctionHandler.PlaceBidHandler)
	}

	listings := router.Group("/listings")
	{
		listings.GET("", auctionHandler.BrowseListingsHandler)
		listings.POST("", auctionHandler.CreateListingHandler)
		listings.GET("/:listing_id", auctionHandler.GetListingHandler)
		listings.POST("/:listing_id/close", auctionHandler.CloseListingHandler)
		listings.GET("/:listing_id/bids", auctionHandler.GetBidsByListingHandler)
		listings.GET("/:listing_id/winning", auctionHandler.GetWinningBidHandler)
		listings.GET("/:listing_id/price", auctionHandler.GetCurrentPriceHandler)
		listings.GET("/:listing_id/standing/:user_id", auctionHandler.GetBidderStandingHandler)
		listings.GET("/:listing_id/comments", auctionHandler.GetCommentsHandler)
	}

	categories := router.Group("/categories")
	{
		categories.GET("", auctionHandler.ListCategoriesHandler)
		categories.POST("", auctionHandler.CreateCategoryHandler)
	}

	comments := router.Group("/comments")
	{
		comments.POST("", auctionHandler.AddCommentHandler)
	}

	watchlist := router.Group("/watchlist")
	{
		watchlist.POST("", auctionHandler.ToggleWatchHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/watchlist", auctionHandler.GetWatchlistHandler)
	}

	return router
}
