package place

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type CreatePlaceDTO struct {
	Name                 string      `json:"name" validate:"required,min=1,max=200"`
	Category             string      `json:"category" validate:"required"`
	Latitude             float64     `json:"latitude" validate:"min=-90,max=90"`
	Longitude            float64     `json:"longitude" validate:"min=-180,max=180"`
	NoiseLevel           int         `json:"noise_level" validate:"omitempty,min=1,max=5"`
	WheelchairAccessible bool        `json:"wheelchair_accessible"`
	Hours                WeeklyHours `json:"hours,omitempty"`
}

func (d *CreatePlaceDTO) Validate() error {
	return validate.Struct(d)
}

type UpdatePlaceDTO struct {
	Name                 *string     `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category             *string     `json:"category,omitempty"`
	Latitude             *float64    `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude            *float64    `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	NoiseLevel           *int        `json:"noise_level,omitempty" validate:"omitempty,min=1,max=5"`
	WheelchairAccessible *bool       `json:"wheelchair_accessible,omitempty"`
	Hours                WeeklyHours `json:"hours,omitempty"`
}

func (d *UpdatePlaceDTO) Validate() error {
	return validate.Struct(d)
}

type UpdateStatusDTO struct {
	IsOpen        bool    `json:"is_open"`
	QueueLength   int     `json:"queue_length" validate:"min=0"`
	EstimatedWait int     `json:"estimated_wait_minutes" validate:"min=0"`
	Density       float64 `json:"density" validate:"min=0,max=1"`
}

func (d *UpdateStatusDTO) Validate() error {
	return validate.Struct(d)
}
