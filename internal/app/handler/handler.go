package handler

import (
	"errors"
	"net/http"

	"backend/internal/app/allotment"
	"backend/internal/app/dto"
	"backend/internal/app/middleware"
	"backend/internal/app/repository"
	"backend/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIHandler содержит обработчики REST API портала
type APIHandler struct {
	Repository  *repository.Repository
	Engine      *allotment.Engine
	MinIOClient *storage.MinIOClient
	AuthHandler *AuthHandler
}

func NewAPIHandler(r *repository.Repository, engine *allotment.Engine, minioClient *storage.MinIOClient, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Repository:  r,
		Engine:      engine,
		MinIOClient: minioClient,
		AuthHandler: authHandler,
	}
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// Участник текущего запроса (кладётся middleware-ом авторизации)
func (h *APIHandler) getPrincipal(c *gin.Context) (*middleware.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok {
		logrus.Warn("principal not found in context")
		h.errorResponse(c, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	return p, true
}

// allotmentError транслирует ошибки движка распределения в HTTP-статусы.
// ErrNotAuthorized наружу отдаётся как 404, чтобы не раскрывать чужие заявки;
// внутренний контракт при этом различает эти две ошибки.
func (h *APIHandler) allotmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, allotment.ErrNotAuthorized):
		h.errorResponse(c, http.StatusNotFound, allotment.ErrApplicationNotFound.Error())
	case errors.Is(err, allotment.ErrIPONotFound),
		errors.Is(err, allotment.ErrApplicationNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, allotment.ErrInvalidLots),
		errors.Is(err, allotment.ErrInvalidDecision):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, allotment.ErrAlreadyApplied),
		errors.Is(err, allotment.ErrAlreadyDecided),
		errors.Is(err, allotment.ErrCapacityExceeded):
		h.errorResponse(c, http.StatusConflict, err.Error())
	default:
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "internal error")
	}
}
