package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/cars-api/internal/errs"
	"github.com/deppfellow/cars-api/internal/middleware"
	"github.com/deppfellow/cars-api/internal/model"
	"github.com/deppfellow/cars-api/internal/repository"
	"github.com/deppfellow/cars-api/internal/server"
)

// CarHandler serves the /cars routes on top of a CarRepository.
type CarHandler struct {
	Handler
	cars repository.CarRepository
}

func NewCarHandler(s *server.Server, cars repository.CarRepository) *CarHandler {
	return &CarHandler{
		Handler: NewHandler(s),
		cars:    cars,
	}
}

// requestURL is the absolute URL of the current request without its query
// string, so a function key passed as ?code= never ends up in a Location.
func requestURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + strings.TrimSuffix(c.Request().URL.Path, "/")
}

// ListCars answers GET /cars with every car, [] when there are none.
func (h *CarHandler) ListCars(c echo.Context, _ *model.ListCarsRequest) ([]model.Car, error) {
	middleware.GetLogger(c).Info().Msg("Executing GetAllCars function.")

	return h.cars.ListAll(c.Request().Context())
}

// GetCar answers GET /cars/:id.
func (h *CarHandler) GetCar(c echo.Context, req *model.GetCarRequest) (*model.Car, error) {
	middleware.GetLogger(c).Info().Int("id", req.ID).Msg("Executing GetCarById function.")

	car, err := h.cars.GetByID(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, errs.NewCarNotFoundError(req.ID)
	}

	return car, nil
}

// CreateCar answers POST /cars with 201 and the stored car. Location points
// at the new resource.
func (h *CarHandler) CreateCar(c echo.Context, req *model.CreateCarRequest) (model.Car, error) {
	middleware.GetLogger(c).Info().Msg("Executing CreateCar function.")

	created, err := h.cars.Create(c.Request().Context(), req.ToCar())
	if err != nil {
		return model.Car{}, err
	}

	c.Response().Header().Set(echo.HeaderLocation, requestURL(c)+"/"+strconv.Itoa(created.ID))

	return created, nil
}

// UpdateCar answers PUT /cars/:id. The body id must equal the path id; the
// check runs before any data access. Success is 201 with Location set to
// the request URL.
func (h *CarHandler) UpdateCar(c echo.Context, req *model.UpdateCarRequest) (model.Car, error) {
	logger := middleware.GetLogger(c)
	logger.Info().Int("id", req.PathID).Msg("Executing UpdateCar function.")

	if req.ID != req.PathID {
		logger.Info().
			Int("id", req.PathID).
			Int("car_id", req.ID).
			Msg("Query parameters and car id do not match. Could not update a resource.")

		code := "CAR_ID_MISMATCH"
		return model.Car{}, errs.NewBadRequestError(
			fmt.Sprintf("Path id %d does not match car id %d", req.PathID, req.ID),
			true, &code,
			[]errs.FieldError{{Field: "id", Error: "must match the path id"}},
			nil,
		)
	}

	res, err := h.cars.Update(c.Request().Context(), req.ToCar())
	if err != nil {
		return model.Car{}, err
	}

	if res.Status == repository.UpdateNotFound {
		logger.Info().Int("id", req.PathID).Msg("Car does not exist. Could not update a resource.")
		return model.Car{}, errs.NewCarNotFoundError(req.PathID)
	}

	logger.Info().Int("id", req.PathID).Msg("Updated a car successfully.")

	c.Response().Header().Set(echo.HeaderLocation, requestURL(c))

	return res.Car, nil
}

// DeleteCar answers DELETE /cars/:id with 204. An id that does not exist is
// a 404 and the delete statement is never issued.
func (h *CarHandler) DeleteCar(c echo.Context, req *model.DeleteCarRequest) error {
	middleware.GetLogger(c).Info().Int("id", req.ID).Msg("Executing DeleteCar function.")

	ctx := c.Request().Context()

	car, err := h.cars.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if car == nil {
		return errs.NewCarNotFoundError(req.ID)
	}

	deleted, err := h.cars.Delete(ctx, req.ID)
	if err != nil {
		return err
	}
	// Removed by someone else between the lookup and the delete.
	if !deleted {
		return errs.NewCarNotFoundError(req.ID)
	}

	return nil
}
