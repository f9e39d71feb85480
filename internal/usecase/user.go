package usecase

import (
	"context"

	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/repository"
)

// UserUsecase defines the business logic for profile management.
type UserUsecase interface {
	GetMe(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, error)
	UpdateCompanyProfile(ctx context.Context, principal model.Principal, company model.Company) (*model.User, error)
}

// UpdateProfileParams defines the optional seeker profile fields.
// Only the fields that are not nil will be updated.
type UpdateProfileParams struct {
	Name       *string
	Phone      *string
	Skills     *[]string
	Education  *[]model.Education
	Experience *[]model.Experience
	ResumeURL  *string
	Location   *model.Location
}

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) GetMe(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *userUsecase) UpdateProfile(
	ctx context.Context,
	userID string,
	params UpdateProfileParams,
) (*model.User, error) {
	user, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		Name:       params.Name,
		Phone:      params.Phone,
		Skills:     params.Skills,
		Education:  params.Education,
		Experience: params.Experience,
		ResumeURL:  params.ResumeURL,
		Location:   params.Location,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *userUsecase) UpdateCompanyProfile(
	ctx context.Context,
	principal model.Principal,
	company model.Company,
) (*model.User, error) {
	if principal.Role != model.RoleEmployer {
		return nil, ErrNotEmployer
	}

	user, err := u.userRepo.UpdateUser(ctx, principal.ID, repository.UpdateUserParams{
		Company: &company,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
