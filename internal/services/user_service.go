package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *validators.UserProfileRequest, image *utils.UploadedFile) (*models.User, error)
}

type userService struct {
	users  interfaces.UserRepository
	sink   AttachmentSink
	logger *logger.Logger
}

func NewUserService(users interfaces.UserRepository, sink AttachmentSink, log *logger.Logger) UserService {
	return &userService{
		users:  users,
		sink:   sink,
		logger: log.WithField("service", "user"),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User", "Failed to get profile")
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *validators.UserProfileRequest, image *utils.UploadedFile) (*models.User, error) {
	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User", "Failed to update profile")
	}

	fields := map[string]interface{}{}
	setString(fields, "first_name", request.FirstName)
	setString(fields, "last_name", request.LastName)
	setString(fields, "email", request.Email)
	setString(fields, "gender", request.Gender)
	if request.Address != nil {
		fields["address"] = request.Address.ToModel()
	}
	if request.DateOfBirth != nil {
		dob, err := validators.ParseISODate(strings.TrimSpace(*request.DateOfBirth))
		if err != nil {
			return nil, utils.NewValidationError("Invalid date of birth", err.Error())
		}
		fields["date_of_birth"] = dob
	}

	var stored string
	if image != nil {
		if stored, err = s.sink.Store(ctx, "users", image); err != nil {
			return nil, err
		}
		fields["profile_image"] = stored
	}

	user, err := s.users.UpdateProfile(ctx, userID, fields)
	if err != nil {
		if stored != "" {
			s.sink.Discard(ctx, stored)
		}
		return nil, notFoundOr(err, "User", "Failed to update profile")
	}

	if stored != "" && current.ProfileImage != "" {
		s.sink.Discard(ctx, current.ProfileImage)
	}

	s.logger.WithPrincipal(string(models.RoleUser), userID).
		WithField("is_profile", user.IsProfile).
		Info("User profile updated")

	return user, nil
}
