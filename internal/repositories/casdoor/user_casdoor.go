package casdoor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/LMS-F-2025/classroom-service/internal/cache"
	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
)

// CasdoorConfig holds the configuration for the Casdoor connection.
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// UserCasdoor serves read-only user profiles from Casdoor with a Redis
// read-through cache. The service never writes users.
type UserCasdoor struct {
	client *casdoorsdk.Client
	cache  *cache.CacheHelper
	config CasdoorConfig
}

func NewUserCasdoor(config CasdoorConfig, profileCache *cache.CacheHelper) repositories.UserRepository {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &UserCasdoor{
		client: client,
		cache:  profileCache,
		config: config,
	}
}

func (u *UserCasdoor) convertCasdoorUserToModel(casdoorUser *casdoorsdk.User) *models.User {
	if casdoorUser == nil {
		return nil
	}

	var createdAt, updatedAt time.Time
	if casdoorUser.CreatedTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, casdoorUser.CreatedTime)
	}
	if casdoorUser.UpdatedTime != "" {
		updatedAt, _ = time.Parse(time.RFC3339, casdoorUser.UpdatedTime)
	}

	user := &models.User{
		ID:        casdoorUser.Id,
		FullName:  casdoorUser.DisplayName,
		Email:     casdoorUser.Email,
		AppRole:   u.convertCasdoorRole(casdoorUser),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if casdoorUser.Avatar != "" {
		avatar := casdoorUser.Avatar
		user.AvatarURL = &avatar
	}
	if casdoorUser.Bio != "" {
		bio := casdoorUser.Bio
		user.Bio = &bio
	}

	return user
}

// The platform-level role claim is informational only. Classroom authority is
// always derived from membership rows.
func (u *UserCasdoor) convertCasdoorRole(casdoorUser *casdoorsdk.User) models.AppRole {
	if casdoorUser.IsAdmin {
		return models.AppRoleAdmin
	}
	for _, role := range casdoorUser.Roles {
		if strings.EqualFold(role.Name, "admin") || strings.EqualFold(role.Name, "administrator") {
			return models.AppRoleAdmin
		}
	}
	return models.AppRoleUser
}

// GetByID retrieves a user profile by ID.
func (u *UserCasdoor) GetByID(ctx context.Context, id string) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%s", id)

	var cached models.User
	if err := u.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found with ID %s", id)
	}

	user := u.convertCasdoorUserToModel(casdoorUser)
	u.cache.Set(ctx, cacheKey, user, cache.ProfileCacheConfig.TTL)
	u.cache.Set(ctx, fmt.Sprintf("email:%s", user.Email), user, cache.ProfileCacheConfig.TTL)

	return user, nil
}

// GetByEmail retrieves a user profile by email.
func (u *UserCasdoor) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	cacheKey := fmt.Sprintf("email:%s", email)

	var cached models.User
	if err := u.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	casdoorUser, err := u.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found with email %s", email)
	}

	user := u.convertCasdoorUserToModel(casdoorUser)
	u.cache.Set(ctx, cacheKey, user, cache.ProfileCacheConfig.TTL)
	u.cache.Set(ctx, fmt.Sprintf("id:%s", user.ID), user, cache.ProfileCacheConfig.TTL)

	return user, nil
}

// GetByIDs resolves multiple profiles. Missing or failed lookups are simply
// absent from the result map; callers substitute a placeholder.
func (u *UserCasdoor) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))

	for _, id := range ids {
		if _, ok := users[id]; ok {
			continue
		}
		user, err := u.GetByID(ctx, id)
		if err != nil {
			continue
		}
		users[id] = user
	}

	return users, nil
}
