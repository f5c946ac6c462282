package route

import (
	"context"

	httpHandler "relief-exchange/internal/delivery/http/handler"
	"relief-exchange/internal/delivery/http/middleware"
	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/realtime"
	"relief-exchange/internal/repository"
	"relief-exchange/internal/service"

	_ "relief-exchange/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Deps is everything the API needs from the process: storage, the realtime
// transport split into its two directions, and the search radius.
// Closing, when done, ends open event streams.
type Deps struct {
	Store        repository.Store
	Publisher    realtime.Publisher
	Subscriber   realtime.Subscriber
	RadiusMeters float64
	Clock        service.Clock
	Logger       *zap.Logger
	Closing      context.Context
}

func SetupRoute(app *gin.Engine, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := deps.Store

	// --- SERVICES ---
	dispatcher := service.NewDispatcher(store.Notifications, store.History, deps.Publisher, logger)
	requestService := service.NewRequestService(store.Requests, store.History, deps.Clock, logger)
	offerService := service.NewOfferService(store.Offers, store.History, deps.Clock, logger)
	matchingService := service.NewMatchingService(store, dispatcher, deps.Clock, logger)
	candidateService := service.NewCandidateService(store.Requests, store.Offers, deps.RadiusMeters, deps.Clock)
	notificationService := service.NewNotificationService(store.Notifications, deps.Clock)
	reconcileService := service.NewReconcileService(store, deps.Clock, logger)

	// --- HANDLERS ---
	authHandler := httpHandler.NewAuthHandler()
	requestHandler := httpHandler.NewRequestHandler(requestService, matchingService, candidateService)
	offerHandler := httpHandler.NewOfferHandler(offerService, matchingService, candidateService)
	matchHandler := httpHandler.NewMatchHandler(matchingService)
	notificationHandler := httpHandler.NewNotificationHandler(notificationService)
	eventHandler := httpHandler.NewEventHandler(deps.Subscriber, deps.Closing)
	adminHandler := httpHandler.NewAdminHandler(reconcileService, offerService)

	app.Use(middleware.RequestLogger(logger))

	app.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
		ginSwagger.DefaultModelsExpandDepth(0),
	))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.GET("/profile", middleware.AuthRequired(), authHandler.Profile)

	// --- Requests ---
	requests := api.Group("/requests", middleware.AuthRequired())
	requests.POST("", middleware.RoleAllowed(entity.RoleRequester), requestHandler.CreateRequest)
	requests.GET("/my", requestHandler.GetMyRequests)
	requests.GET("/:id", requestHandler.GetRequest)
	requests.POST("/:id/cancel", requestHandler.CancelRequest)
	requests.DELETE("/:id", requestHandler.DeleteRequest)
	requests.GET("/:id/candidates", requestHandler.GetCandidates)
	requests.GET("/:id/history", requestHandler.GetHistory)

	// --- Offers ---
	offers := api.Group("/offers", middleware.AuthRequired())
	offers.POST("", middleware.RoleAllowed(entity.RoleProvider), offerHandler.CreateOffer)
	offers.GET("/my", offerHandler.GetMyOffers)
	offers.GET("/:id", offerHandler.GetOffer)
	offers.DELETE("/:id", offerHandler.DeleteOffer)
	offers.GET("/:id/candidates", offerHandler.GetCandidates)
	offers.POST("/:id/fulfill", offerHandler.FulfillOffer)
	offers.GET("/:id/history", offerHandler.GetHistory)

	// --- Matches ---
	matches := api.Group("/matches", middleware.AuthRequired())
	matches.POST("", matchHandler.ProposeMatch)
	matches.POST("/accept", matchHandler.AcceptMatch)
	matches.POST("/reject", matchHandler.RejectMatch)

	// --- Notifications & realtime ---
	notifications := api.Group("/notifications", middleware.AuthRequired())
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.PATCH("/read-all", notificationHandler.MarkAllAsRead)
	notifications.PATCH("/:id/read", notificationHandler.MarkAsRead)

	api.GET("/events/stream", middleware.AuthRequired(), eventHandler.Stream)

	// --- Admin ---
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleAllowed(entity.RoleAdmin))
	admin.POST("/reconcile", adminHandler.ReconcilePair)
	admin.POST("/expire", adminHandler.ExpireOffers)
}
