package user

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type CreateUserDTO struct {
	Username    string  `json:"username" validate:"required,alphanum,min=3,max=30"`
	DisplayName string  `json:"display_name" validate:"required,min=1,max=100"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Gender      string  `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	BirthDate   string  `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (d *CreateUserDTO) Validate() error {
	return validate.Struct(d)
}

type UpdateUserDTO struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Gender      *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	BirthDate   *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (d *UpdateUserDTO) Validate() error {
	return validate.Struct(d)
}

type UpdateLocationDTO struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

func (d *UpdateLocationDTO) Validate() error {
	return validate.Struct(d)
}

type PreferencesDTO struct {
	PreferredCrowdLevel string   `json:"preferred_crowd_level,omitempty" validate:"omitempty,oneof=low medium high very_high"`
	MaxWaitMinutes      int      `json:"max_wait_minutes" validate:"min=0,max=600"`
	NeedsWheelchair     bool     `json:"needs_wheelchair"`
	NoiseTolerance      int      `json:"noise_tolerance" validate:"omitempty,min=1,max=5"`
	PreferredTimeSlots  []string `json:"preferred_time_slots,omitempty"`
	MaxDistanceMeters   float64  `json:"max_distance_meters" validate:"min=0"`
	PrefMinAge          *int     `json:"pref_min_age,omitempty" validate:"omitempty,min=18,max=120"`
	PrefMaxAge          *int     `json:"pref_max_age,omitempty" validate:"omitempty,min=18,max=120"`
	PreferredGender     string   `json:"preferred_gender,omitempty" validate:"omitempty,oneof=male female other any"`
	GroupSize           string   `json:"group_size,omitempty" validate:"omitempty,oneof=solo pair small_group large_group"`
	Interests           []string `json:"interests,omitempty" validate:"max=30"`
	SafetyLevel         *int     `json:"safety_level,omitempty" validate:"omitempty,min=1,max=5"`
}

func (d *PreferencesDTO) Validate() error {
	return validate.Struct(d)
}
