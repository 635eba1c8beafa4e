package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"tourbooking/internal/adapter/catalog"
	"tourbooking/internal/adapter/link"
	"tourbooking/internal/adapter/lock"
	"tourbooking/internal/adapter/order"
	"tourbooking/internal/config"
	"tourbooking/internal/database"
	"tourbooking/internal/domain"
	"tourbooking/internal/middleware"
	"tourbooking/internal/modules/availability"
	"tourbooking/internal/modules/booking"
	"tourbooking/internal/modules/offering"
	"tourbooking/internal/modules/pricing"
	jwtsvc "tourbooking/internal/pkg/jwt"
	"tourbooking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("could not run migrations")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("invalid REDIS_URL")
	}
	redisClient := redis.NewClient(redisOpts)

	// External commerce services and the link registry between them and
	// our rows.
	catalogClient := catalog.NewClient(cfg.CatalogAPIURL, cfg.CatalogAPIToken)
	orderClient := order.NewClient(cfg.OrderAPIURL, cfg.OrderAPIToken)
	links := link.NewRegistry(db)
	cartLock := lock.NewRedisLock(redisClient)

	offeringRepo := repository.NewOfferingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	availabilityService := availability.NewService(offeringRepo, bookingRepo)
	availabilityHandler := availability.NewHandler(availabilityService)

	pricingService := pricing.NewService(offeringRepo, catalogClient, log)
	pricingHandler := pricing.NewHandler(pricingService)

	tourService := offering.NewService(domain.KindTour, offeringRepo, bookingRepo, catalogClient, links, log)
	tourHandler := offering.NewHandler(tourService)
	packageService := offering.NewService(domain.KindPackage, offeringRepo, bookingRepo, catalogClient, links, log)
	packageHandler := offering.NewHandler(packageService)

	bookingService := booking.NewService(bookingRepo, offeringRepo, orderClient, links, cartLock, availabilityService, log)
	bookingHandler := booking.NewHandler(bookingService)

	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public storefront
		tours := v1.Group("/tours")
		{
			tourHandler.RegisterReadRoutes(tours)
			availabilityHandler.RegisterRoutes(tours)
			pricingHandler.RegisterReadRoutes(tours)
		}
		packages := v1.Group("/packages")
		{
			packageHandler.RegisterReadRoutes(packages)
			availabilityHandler.RegisterRoutes(packages)
			pricingHandler.RegisterReadRoutes(packages)
		}
		bookingHandler.RegisterCartRoutes(v1)
		bookingHandler.RegisterBookingRoutes(v1)

		// admin
		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			adminTours := admin.Group("/tours")
			{
				tourHandler.RegisterAdminRoutes(adminTours)
				pricingHandler.RegisterAdminRoutes(adminTours)
			}
			adminPackages := admin.Group("/packages")
			{
				packageHandler.RegisterAdminRoutes(adminPackages)
				pricingHandler.RegisterAdminRoutes(adminPackages)
			}
			bookingHandler.RegisterAdminRoutes(admin)
		}
	}

	log.WithField("port", cfg.Port).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
