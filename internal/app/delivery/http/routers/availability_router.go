package routers

import (
	"fmt"

	"healthfirst-service/internal/app/delivery/http/controllers"
	"healthfirst-service/internal/app/delivery/http/middlewares"
	"healthfirst-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAvailabilityRoutes(
	router chi.Router,
	writeLimiter *middlewares.RateLimiter,
	availabilityController *controllers.AvailabilityController,
	slotController *controllers.SlotController,
) {
	router.Get("/search", slotController.SearchSlots)
	router.Get(fmt.Sprintf("/{%s}/availability", constvars.URLParamProviderID), availabilityController.GetProviderAvailability)

	router.Group(func(r chi.Router) {
		r.Use(writeLimiter.Limit)
		r.Post("/", availabilityController.CreateAvailability)
		r.Put(fmt.Sprintf("/{%s}", constvars.URLParamSlotID), slotController.UpdateSlot)
		r.Delete(fmt.Sprintf("/{%s}", constvars.URLParamSlotID), slotController.DeleteSlot)
		r.Delete(fmt.Sprintf("/records/{%s}", constvars.URLParamAvailabilityID), availabilityController.DeleteAvailability)
	})
}
