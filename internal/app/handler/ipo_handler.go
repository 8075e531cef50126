package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"backend/internal/app/ds"
	"backend/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ============ ДОМЕН IPO ============

// GetIPOs список размещений
// @Summary Список IPO
// @Description Все размещения с суммой одобренных лотов, новые первыми
// @Tags IPOs
// @Produce json
// @Success 200 {object} dto.IPOListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/ipos [get]
func (h *APIHandler) GetIPOs(c *gin.Context) {
	ipos, err := h.Repository.GetOpenIPOs()
	if err != nil {
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load ipos")
		return
	}

	c.JSON(http.StatusOK, dto.IPOListResponse{
		IPOs:  ipos,
		Total: len(ipos),
	})
}

// GetIPO одно размещение
// @Summary Детали IPO
// @Description Размещение с одобренными и оставшимися лотами
// @Tags IPOs
// @Produce json
// @Param id path int true "ID размещения"
// @Success 200 {object} dto.IPODetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ipos/{id} [get]
func (h *APIHandler) GetIPO(c *gin.Context) {
	ipoID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	ipo, err := h.Repository.GetIPOByID(ipoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "ipo not found")
			return
		}
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load ipo")
		return
	}

	remaining, err := h.Engine.RemainingLots(c.Request.Context(), ipoID)
	if err != nil {
		h.allotmentError(c, err)
		return
	}

	row := dto.IPODetailResponse{RemainingLots: remaining}
	row.ID = ipo.ID
	row.CompanyID = ipo.CompanyID
	row.CompanyName = ipo.CompanyName
	row.IssuePrice = ipo.IssuePrice
	row.LotSize = ipo.LotSize
	row.TotalLots = ipo.TotalLots
	row.OpenDate = ipo.OpenDate
	row.CloseDate = ipo.CloseDate
	row.ApprovedLots = ipo.TotalLots - remaining
	row.Prospectus = ipo.ProspectusFile

	c.JSON(http.StatusOK, row)
}

// CreateIPO создание размещения
// @Summary Создать IPO
// @Description Компания размещает новое IPO; имя компании денормализуется на момент создания
// @Tags IPOs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateIPORequest true "Параметры размещения"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/ipos [post]
func (h *APIHandler) CreateIPO(c *gin.Context) {
	p, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var request dto.CreateIPORequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ipo := ds.IPO{
		CompanyID:   p.ID,
		CompanyName: p.DisplayName,
		IssuePrice:  request.IssuePrice,
		LotSize:     request.LotSize,
		TotalLots:   request.TotalLots,
		OpenDate:    request.OpenDate,
		CloseDate:   request.CloseDate,
		CreatedAt:   time.Now(),
	}
	if err := h.Repository.CreateIPO(&ipo); err != nil {
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to create ipo")
		return
	}

	h.successResponse(c, http.StatusCreated, "ipo listed", gin.H{"id": ipo.ID})
}

// GetMyIPOs размещения текущей компании
// @Summary Мои IPO
// @Description Размещения текущей компании, новые первыми
// @Tags IPOs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.IPOListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/ipos/mine [get]
func (h *APIHandler) GetMyIPOs(c *gin.Context) {
	p, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	ipos, err := h.Repository.GetIPOsByCompany(p.ID)
	if err != nil {
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load ipos")
		return
	}

	c.JSON(http.StatusOK, dto.IPOListResponse{
		IPOs:  ipos,
		Total: len(ipos),
	})
}

// UploadProspectus загрузка проспекта эмиссии
// @Summary Загрузить проспект
// @Description Компания-владелец загружает документ проспекта в MinIO
// @Tags IPOs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID размещения"
// @Param file formData file true "Файл проспекта"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ipos/{id}/prospectus [post]
func (h *APIHandler) UploadProspectus(c *gin.Context) {
	p, ok := h.getPrincipal(c)
	if !ok {
		return
	}
	if h.MinIOClient == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "file storage is not configured")
		return
	}

	ipoID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	ipo, err := h.Repository.GetIPOByID(ipoID)
	if err != nil || ipo.CompanyID != p.ID {
		// чужое размещение наружу выглядит как отсутствующее
		h.errorResponse(c, http.StatusNotFound, "ipo not found")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "cannot read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "cannot read file")
		return
	}

	// Старый объект, если был, удаляем
	if ipo.ProspectusFile != nil {
		if err := h.MinIOClient.DeleteProspectus(*ipo.ProspectusFile); err != nil {
			logrus.Warnf("failed to delete old prospectus: %v", err)
		}
	}

	filename, err := h.MinIOClient.UploadProspectus(data, fileHeader.Filename)
	if err != nil {
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "upload failed")
		return
	}

	if err := h.Repository.SetProspectusFile(ipoID, filename); err != nil {
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to save file reference")
		return
	}

	h.successResponse(c, http.StatusOK, "prospectus uploaded", gin.H{"file": filename})
}

// GetProspectus ссылка на проспект
// @Summary Скачать проспект
// @Description Временная ссылка на документ проспекта
// @Tags IPOs
// @Produce json
// @Param id path int true "ID размещения"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ipos/{id}/prospectus [get]
func (h *APIHandler) GetProspectus(c *gin.Context) {
	if h.MinIOClient == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "file storage is not configured")
		return
	}

	ipoID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	ipo, err := h.Repository.GetIPOByID(ipoID)
	if err != nil || ipo.ProspectusFile == nil {
		h.errorResponse(c, http.StatusNotFound, "prospectus not found")
		return
	}

	url, err := h.MinIOClient.GetProspectusURL(*ipo.ProspectusFile)
	if err != nil {
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to generate link")
		return
	}

	h.successResponse(c, http.StatusOK, "", gin.H{"url": url})
}

func (h *APIHandler) paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
