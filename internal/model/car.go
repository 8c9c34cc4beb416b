// Package model holds the Car entity and the request payloads bound by
// the HTTP handlers.
package model

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Car is the only persisted entity. ID is assigned by the store on insert
// and never taken from a client on create.
type Car struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

var validate = newValidator()

// newValidator adds notblank, which rejects whitespace-only names that
// required alone lets through.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// GetCarRequest identifies a car by its path id.
type GetCarRequest struct {
	ID int `param:"id"`
}

func (r *GetCarRequest) Validate() error {
	return nil
}

// ListCarsRequest carries no input; listing is unfiltered.
type ListCarsRequest struct{}

func (r *ListCarsRequest) Validate() error {
	return nil
}

// CreateCarRequest is the POST /cars body.
type CreateCarRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

func (r *CreateCarRequest) Validate() error {
	return validate.Struct(r)
}

// ToCar converts the payload into an unsaved Car.
func (r *CreateCarRequest) ToCar() Car {
	return Car{Name: r.Name}
}

// UpdateCarRequest is the PUT /cars/:id input. PathID comes from the route,
// ID and Name from the body; the handler rejects a mismatch.
type UpdateCarRequest struct {
	PathID int    `param:"id" json:"-"`
	ID     int    `json:"id"`
	Name   string `json:"name" validate:"required,notblank,max=255"`
}

func (r *UpdateCarRequest) Validate() error {
	return validate.Struct(r)
}

// ToCar converts the payload into the Car to persist.
func (r *UpdateCarRequest) ToCar() Car {
	return Car{ID: r.ID, Name: r.Name}
}

// DeleteCarRequest identifies the car to remove.
type DeleteCarRequest struct {
	ID int `param:"id"`
}

func (r *DeleteCarRequest) Validate() error {
	return nil
}
