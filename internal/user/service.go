package user

import (
	"context"
	"errors"
	"time"
)

var ErrUsernameTaken = errors.New("username already taken")

type Service interface {
	CreateUser(ctx context.Context, dto *CreateUserDTO) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	UpdateUser(ctx context.Context, id int64, dto *UpdateUserDTO) (*User, error)
	UpdateLocation(ctx context.Context, id int64, lat, lng float64) error
	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	SavePreferences(ctx context.Context, userID int64, dto *PreferencesDTO) (*Preferences, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateUser(ctx context.Context, dto *CreateUserDTO) (*User, error) {
	existing, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	u := &User{
		Username:    dto.Username,
		DisplayName: dto.DisplayName,
		Email:       dto.Email,
		Phone:       dto.Phone,
		Gender:      dto.Gender,
	}
	if dto.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", dto.BirthDate)
		if err != nil {
			return nil, err
		}
		u.BirthDate = &birth
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) UpdateUser(ctx context.Context, id int64, dto *UpdateUserDTO) (*User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.DisplayName != nil {
		u.DisplayName = *dto.DisplayName
	}
	if dto.Email != nil {
		u.Email = dto.Email
	}
	if dto.Phone != nil {
		u.Phone = dto.Phone
	}
	if dto.Gender != nil {
		u.Gender = *dto.Gender
	}
	if dto.BirthDate != nil {
		birth, err := time.Parse("2006-01-02", *dto.BirthDate)
		if err != nil {
			return nil, err
		}
		u.BirthDate = &birth
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateLocation(ctx context.Context, id int64, lat, lng float64) error {
	return s.repo.UpdateLocation(ctx, id, lat, lng)
}

func (s *service) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	return s.repo.GetPreferences(ctx, userID)
}

func (s *service) SavePreferences(ctx context.Context, userID int64, dto *PreferencesDTO) (*Preferences, error) {
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return nil, err
	}

	p := &Preferences{
		UserID:              userID,
		PreferredCrowdLevel: dto.PreferredCrowdLevel,
		MaxWaitMinutes:      dto.MaxWaitMinutes,
		NeedsWheelchair:     dto.NeedsWheelchair,
		NoiseTolerance:      dto.NoiseTolerance,
		PreferredTimeSlots:  dto.PreferredTimeSlots,
		MaxDistanceMeters:   dto.MaxDistanceMeters,
		PrefMinAge:          dto.PrefMinAge,
		PrefMaxAge:          dto.PrefMaxAge,
		PreferredGender:     dto.PreferredGender,
		GroupSize:           dto.GroupSize,
		Interests:           dto.Interests,
		SafetyLevel:         dto.SafetyLevel,
	}

	if err := s.repo.UpsertPreferences(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
