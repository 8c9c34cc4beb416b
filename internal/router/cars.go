package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/cars-api/internal/handler"
	"github.com/deppfellow/cars-api/internal/middleware"
	"github.com/deppfellow/cars-api/internal/model"
)

func registerCarRoutes(r *echo.Echo, h *handler.Handlers, mws *middleware.Middlewares) {
	cars := r.Group("/cars", mws.Auth.RequireFunctionKey)
	base := h.Cars.Handler
	intID := middleware.IntegerParam("id")

	cars.GET("", handler.Handle(base, h.Cars.ListCars, http.StatusOK, &model.ListCarsRequest{}))
	cars.POST("", handler.Handle(base, h.Cars.CreateCar, http.StatusCreated, &model.CreateCarRequest{}))
	cars.GET("/:id", handler.Handle(base, h.Cars.GetCar, http.StatusOK, &model.GetCarRequest{}), intID)
	cars.PUT("/:id", handler.Handle(base, h.Cars.UpdateCar, http.StatusCreated, &model.UpdateCarRequest{}), intID)
	cars.DELETE("/:id", handler.HandleNoContent(base, h.Cars.DeleteCar, http.StatusNoContent, &model.DeleteCarRequest{}), intID)
}
