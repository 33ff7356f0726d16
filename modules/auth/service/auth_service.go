package service

import (
	"context"

	"event-manager-api/core/cache"
	"event-manager-api/core/constants"
	"event-manager-api/core/errors"
	"event-manager-api/core/logger"
	"event-manager-api/core/utils"
	"event-manager-api/modules/auth/dto"
	userEntity "event-manager-api/modules/user/entity"
	userMapper "event-manager-api/modules/user/mapper"
	userService "event-manager-api/modules/user/service"
)

// Identity is the part of the user module the auth flow depends on.
type Identity interface {
	Register(ctx context.Context, name, email, password string) (*userEntity.User, *errors.AppError)
	VerifyCredential(ctx context.Context, email, password string) (*userEntity.User, *errors.AppError)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
}

type AuthService struct {
	identity Identity
	tokens   *utils.TokenManager
	cache    cache.Cache
}

func NewAuthService(identity Identity, tokens *utils.TokenManager, c cache.Cache) *AuthService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &AuthService{identity: identity, tokens: tokens, cache: c}
}

func (service *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	user, appErr := service.identity.Register(ctx, req.Name, req.Email, req.Password)
	if appErr != nil {
		return nil, appErr
	}
	return service.issue(user)
}

func (service *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	loginKey := constants.RedisKeyLoginAttempts + userService.NormalizeEmail(req.Email)

	blocked, err := service.cache.IsLoginBlocked(ctx, loginKey)
	if err != nil {
		logger.Error("AuthService:Login:IsLoginBlocked:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get login attempt", err)
	}
	if blocked {
		if errExpire := service.cache.Expire(ctx, loginKey, constants.BlockDuration); errExpire != nil {
			logger.Error("AuthService:Login:Expire:Error:", errExpire)
		}
		return nil, errors.NewAppError(errors.ErrTooManyRequests, "too many failed login attempts, try again later", nil)
	}

	user, appErr := service.identity.VerifyCredential(ctx, req.Email, req.Password)
	if appErr != nil {
		if appErr.Code == errors.ErrInvalidCredentials {
			if errIncrement := service.cache.IncrementLoginAttempt(ctx, loginKey); errIncrement != nil {
				logger.Error("AuthService:Login:IncrementLoginAttempt:Error:", errIncrement)
			}
		}
		return nil, appErr
	}

	if errDel := service.cache.Del(ctx, loginKey); errDel != nil {
		logger.Warn("AuthService:Login:Del:Error:", errDel)
	}

	return service.issue(user)
}

// Logout revokes the token until it would have expired anyway.
func (service *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := service.tokens.ValidateAndParseToken(token)
	if err != nil {
		return errors.NewAppError(errors.ErrUnauthorized, "invalid token", err)
	}

	if err := service.cache.AddToTokenBlacklist(ctx, token, service.tokens.RemainingTTL(claims)); err != nil {
		logger.Error("AuthService:Logout:AddToTokenBlacklist:Error:", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to revoke token", err)
	}

	logger.Info("AuthService:Logout:Revoked", "user_id", claims.UserID.String())
	return nil
}

func (service *AuthService) issue(user *userEntity.User) (*dto.AuthResponse, *errors.AppError) {
	token, err := service.tokens.GenerateToken(user.ID, user.Email, constants.ScopeAccess)
	if err != nil {
		logger.Error("AuthService:Issue:GenerateToken:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate token", err)
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int64(service.tokens.TTL().Seconds()),
		User:      userMapper.ToUserResponse(user),
	}, nil
}
