package routers

import (
	"fmt"
	"time"

	"healthfirst-service/internal/app/config"
	"healthfirst-service/internal/app/delivery/http/controllers"
	"healthfirst-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	mw *middlewares.Middlewares,
	availabilityController *controllers.AvailabilityController,
	slotController *controllers.SlotController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	// Rate limiting middleware using httprate
	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(mw.RequestIDMiddleware)
	router.Use(mw.Logging(mw.Log))
	router.Use(mw.ErrorHandler)

	// writes get a stricter limiter that also blocks repeat offenders
	writeLimiter := middlewares.NewRateLimiter(internalConfig.App.MaxTimeRequestsPerSeconds, time.Second, time.Minute)

	endpointPrefix := internalConfig.App.EndpointPrefix
	if endpointPrefix == "" || endpointPrefix[0] != '/' {
		endpointPrefix = fmt.Sprintf("/%s", endpointPrefix)
	}

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route("/availability", func(r chi.Router) {
			attachAvailabilityRoutes(r, writeLimiter, availabilityController, slotController)
		})
	})
}
