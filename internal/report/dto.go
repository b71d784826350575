package report

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type SubmitReportDTO struct {
	PlaceID     string `json:"place_id" validate:"required,uuid4"`
	CrowdLevel  string `json:"crowd_level" validate:"required,oneof=low medium high very_high"`
	WaitMinutes *int   `json:"wait_minutes,omitempty" validate:"omitempty,min=0,max=600"`
	NoiseLevel  *int   `json:"noise_level,omitempty" validate:"omitempty,min=1,max=5"`
	IsOpen      *bool  `json:"is_open,omitempty"`
	Notes       string `json:"notes,omitempty" validate:"max=500"`
	Verified    bool   `json:"-"`
}

func (d *SubmitReportDTO) Validate() error {
	return validate.Struct(d)
}
