package matching

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// CreateMatchDTO is the body for creating a companion match.
type CreateMatchDTO struct {
	UserID      int64 `json:"user_id" validate:"required,gt=0"`
	OtherUserID int64 `json:"other_user_id" validate:"required,gt=0"`
}

func (d *CreateMatchDTO) Validate() error {
	return validate.Struct(d)
}

// CompatibilityResponse is the payload for a pairwise score lookup.
type CompatibilityResponse struct {
	User1ID int64         `json:"user1_id"`
	User2ID int64         `json:"user2_id"`
	Score   float64       `json:"score"`
	Quality MatchQuality  `json:"quality"`
	Factors *FactorScores `json:"factors"`
}
