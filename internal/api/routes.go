package api

import (
	"fmt"
	"net/http"
	"syncfit/connect-api/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the handlers depend on.
type Services struct {
	Auth        service.AuthService
	Users       service.UserService
	Trainers    service.TrainerService
	Application service.ApplicationService
	Payments    service.PaymentService
	Community   service.CommunityService
	Gallery     service.GalleryService
	Stats       service.StatsService
}

// route is one entry of the route table. Every route names its Policy; the
// gate built from it runs before any extra middleware and the handler.
type route struct {
	method     string
	path       string
	policy     Policy
	handler    gin.HandlerFunc
	middleware []gin.HandlerFunc
}

// SetupRoutes registers the whole API on router.
func SetupRoutes(router *gin.Engine, services Services, limiter *RateLimiter) {
	authHandler := NewAuthHandler(services.Auth)
	userHandler := NewUserHandler(services.Users)
	trainerHandler := NewTrainerHandler(services.Trainers)
	applicationHandler := NewApplicationHandler(services.Application)
	paymentHandler := NewPaymentHandler(services.Payments)
	communityHandler := NewCommunityHandler(services.Community)
	imageHandler := NewImageHandler(services.Gallery)
	statsHandler := NewStatsHandler(services.Stats)

	var jwtLimit []gin.HandlerFunc
	if limiter != nil {
		jwtLimit = append(jwtLimit, limiter.Limit())
	}

	routes := []route{
		{method: http.MethodGet, path: "/", policy: Public, handler: func(c *gin.Context) {
			c.String(http.StatusOK, "SyncFit Connect server...")
		}},
		{method: http.MethodPost, path: "/jwt", policy: Public, handler: authHandler.IssueToken, middleware: jwtLimit},

		// --- Users ---
		{method: http.MethodPost, path: "/users", policy: Public, handler: userHandler.SaveUser},
		{method: http.MethodGet, path: "/users", policy: AdminOnly, handler: userHandler.ListUsers},
		{method: http.MethodGet, path: "/users/role/:email", policy: Authenticated, handler: userHandler.GetRole},
		{method: http.MethodPatch, path: "/users/admin/:id", policy: AdminOnly, handler: userHandler.MakeAdmin},

		// --- Reviews & newsletter ---
		{method: http.MethodGet, path: "/reviews", policy: Public, handler: communityHandler.ListReviews},
		{method: http.MethodPost, path: "/reviews", policy: Authenticated, handler: communityHandler.AddReview},
		{method: http.MethodPost, path: "/subscriptions", policy: Public, handler: communityHandler.Subscribe},
		{method: http.MethodGet, path: "/subscribers", policy: AdminOnly, handler: communityHandler.ListSubscribers},

		// --- Images ---
		{method: http.MethodGet, path: "/images", policy: Public, handler: imageHandler.ListImages},
		{method: http.MethodPost, path: "/images", policy: AdminOnly, handler: imageHandler.CreateImage},
		{method: http.MethodDelete, path: "/images/:id", policy: AdminOnly, handler: imageHandler.DeleteImage},

		// --- Trainers & bookings ---
		{method: http.MethodGet, path: "/trainers", policy: Public, handler: trainerHandler.ListTrainers},
		{method: http.MethodGet, path: "/trainer-details/:id", policy: Public, handler: trainerHandler.GetTrainerDetails},
		{method: http.MethodGet, path: "/get-timeslot/:id/:day/:index", policy: Public, handler: trainerHandler.GetTimeSlot},
		{method: http.MethodPost, path: "/trainer-bookings", policy: Authenticated, handler: trainerHandler.CreateBooking},
		{method: http.MethodGet, path: "/trainer-bookings", policy: TrainerOrAdmin, handler: trainerHandler.ListBookings},
		{method: http.MethodGet, path: "/trainer-bookings/trainer/:email", policy: TrainerOrAdmin, handler: trainerHandler.BookingsForTrainer},
		{method: http.MethodGet, path: "/all-bookings/member/:email", policy: Authenticated, handler: trainerHandler.BookingsForMember},

		// --- Payments ---
		{method: http.MethodPost, path: "/create-payment-intent", policy: AdminOnly, handler: paymentHandler.CreatePaymentIntent},
		{method: http.MethodPost, path: "/trainers-payment", policy: AdminOnly, handler: paymentHandler.PayTrainer},
		{method: http.MethodGet, path: "/payments", policy: AdminOnly, handler: paymentHandler.ListPayments},

		{method: http.MethodGet, path: "/packages", policy: Public, handler: communityHandler.ListPackages},

		// --- Trainer applications ---
		{method: http.MethodPost, path: "/trainer-applications", policy: Authenticated, handler: applicationHandler.Submit},
		{method: http.MethodGet, path: "/trainer-applications", policy: AdminOnly, handler: applicationHandler.ListPending},
		{method: http.MethodPatch, path: "/trainer-applications/admin/:id", policy: AdminOnly, handler: applicationHandler.Promote},
		{method: http.MethodDelete, path: "/trainer-applications/admin/:id", policy: AdminOnly, handler: applicationHandler.Reject},

		// --- Forum & classes ---
		{method: http.MethodGet, path: "/forums", policy: Public, handler: communityHandler.ListForumPosts},
		{method: http.MethodPost, path: "/forums", policy: TrainerOrAdmin, handler: communityHandler.CreateForumPost},
		{method: http.MethodPost, path: "/classes", policy: TrainerOrAdmin, handler: communityHandler.CreateClass},
		{method: http.MethodGet, path: "/classes", policy: Public, handler: communityHandler.ListClasses},
		{method: http.MethodGet, path: "/class-details/:id", policy: Public, handler: communityHandler.GetClassDetails},

		// --- Dashboard stats ---
		{method: http.MethodGet, path: "/stats/subscribers", policy: AdminOnly, handler: statsHandler.Subscribers},
		{method: http.MethodGet, path: "/stats/paid-members", policy: AdminOnly, handler: statsHandler.PaidMembers},
	}

	for _, r := range routes {
		handlers := make([]gin.HandlerFunc, 0, len(r.middleware)+2)
		if r.policy != Public {
			handlers = append(handlers, Gate(r.policy, services.Auth, services.Users))
		}
		handlers = append(handlers, r.middleware...)
		handlers = append(handlers, r.handler)
		router.Handle(r.method, r.path, handlers...)
	}
}

// NewRouter builds the engine with the global middleware installed.
// Forwarding headers are honoured only from trustedProxies; with none the
// client IP is the socket peer.
func NewRouter(allowedOrigins, trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.Logger(), gin.Recovery(), RequestIDMiddleware(), CORSMiddleware(allowedOrigins))
	return router, nil
}
