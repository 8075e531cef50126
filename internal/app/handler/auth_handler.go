package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"backend/internal/app/config"
	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/middleware"
	"backend/internal/app/redis"
	"backend/internal/app/repository"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	Repository  *repository.Repository
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthHandler(r *repository.Repository, redisClient *redis.Client, config *config.Config) *AuthHandler {
	return &AuthHandler{
		Repository:  r,
		RedisClient: redisClient,
		Config:      config,
	}
}

// issueToken выпускает JWT с данными участника: id, отображаемое имя, роль.
func (h *AuthHandler) issueToken(userID uint, displayName string, userRole role.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "ipo-portal",
		},
		UserID:      userID,
		DisplayName: displayName,
		Role:        userRole,
	})

	return token.SignedString([]byte(h.Config.JWT.Token))
}

func (h *AuthHandler) errorHandler(ctx *gin.Context, errorStatusCode int, err error) {
	logrus.Error(err.Error())
	ctx.JSON(errorStatusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: err.Error(),
	})
}

// RegisterCompany регистрация компании-эмитента
// @Summary Регистрация компании
// @Description Создание новой компании-эмитента
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.CompanyRegisterRequest true "Данные для регистрации"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/auth/company/register [post]
func (h *AuthHandler) RegisterCompany(ctx *gin.Context) {
	var request dto.CompanyRegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	company := ds.Company{
		Name:     request.Name,
		CIN:      request.CIN,
		Email:    request.Email,
		Password: string(hashed),
		Sector:   request.Sector,
	}
	if err := h.Repository.CreateCompany(&company); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.errorHandler(ctx, http.StatusConflict,
				errors.New("a company with this CIN or email already exists"))
			return
		}
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.SuccessResponse{
		Status:  "success",
		Message: "company registered",
		Data: dto.PrincipalResponse{
			ID:   company.ID,
			Name: company.Name,
			Role: role.Company.String(),
		},
	})
}

// RegisterCandidate регистрация кандидата
// @Summary Регистрация кандидата
// @Description Создание нового кандидата (инвестора)
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.CandidateRegisterRequest true "Данные для регистрации"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/auth/candidate/register [post]
func (h *AuthHandler) RegisterCandidate(ctx *gin.Context) {
	var request dto.CandidateRegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	candidate := ds.Candidate{
		Name:     request.Name,
		Email:    request.Email,
		Password: string(hashed),
	}
	if err := h.Repository.CreateCandidate(&candidate); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.errorHandler(ctx, http.StatusConflict,
				errors.New("a candidate with this email already exists"))
			return
		}
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.SuccessResponse{
		Status:  "success",
		Message: "candidate registered",
		Data: dto.PrincipalResponse{
			ID:   candidate.ID,
			Name: candidate.Name,
			Role: role.Candidate.String(),
		},
	})
}

// LoginCompany вход компании
// @Summary Вход компании
// @Description Аутентификация компании с возвратом JWT токена
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/company/login [post]
func (h *AuthHandler) LoginCompany(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	company, err := h.Repository.GetCompanyByEmail(request.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(company.Password), []byte(request.Password)) != nil {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("invalid company email or password"))
		return
	}

	h.respondWithToken(ctx, company.ID, company.Name, role.Company)
}

// LoginCandidate вход кандидата
// @Summary Вход кандидата
// @Description Аутентификация кандидата с возвратом JWT токена
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/candidate/login [post]
func (h *AuthHandler) LoginCandidate(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	candidate, err := h.Repository.GetCandidateByEmail(request.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(candidate.Password), []byte(request.Password)) != nil {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("invalid candidate email or password"))
		return
	}

	h.respondWithToken(ctx, candidate.ID, candidate.Name, role.Candidate)
}

func (h *AuthHandler) respondWithToken(ctx *gin.Context, userID uint, name string, userRole role.Role) {
	accessToken, err := h.issueToken(userID, name, userRole)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Token:     accessToken,
		TokenType: "Bearer",
		ExpiresIn: int(h.Config.JWT.ExpiresIn.Seconds()),
		User: dto.PrincipalResponse{
			ID:   userID,
			Name: name,
			Role: userRole.String(),
		},
	})
}

// LogoutUser выход из системы
// @Summary Выход из системы
// @Description Завершение сеанса с добавлением токена в blacklist
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	tokenString := ctx.GetHeader("Authorization")
	if tokenString == "" {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("authorization header missing"))
		return
	}

	if strings.HasPrefix(tokenString, "Bearer ") {
		tokenString = tokenString[len("Bearer "):]
	}

	// Парсим токен, чтобы знать его оставшийся TTL
	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.Config.JWT.Token), nil
	})
	if err != nil {
		h.errorHandler(ctx, http.StatusUnauthorized, err)
		return
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("invalid token claims"))
		return
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl > 0 && h.RedisClient != nil {
		if err := h.RedisClient.WriteJWTToBlacklist(ctx.Request.Context(), tokenString, ttl); err != nil {
			h.errorHandler(ctx, http.StatusInternalServerError, err)
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: "logged out",
	})
}

// GetProfile профиль текущего участника
// @Summary Профиль участника
// @Description Возвращает информацию о текущем участнике
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetProfile(ctx *gin.Context) {
	p, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("not authenticated"))
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status: "success",
		Data: dto.PrincipalResponse{
			ID:   p.ID,
			Name: p.DisplayName,
			Role: p.Role.String(),
		},
	})
}
