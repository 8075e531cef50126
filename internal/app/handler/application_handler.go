package handler

import (
	"errors"
	"net/http"

	"backend/internal/app/ds"
	"backend/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ============ ДОМЕН ЗАЯВКИ ============

// ApplyForIPO подача заявки на размещение
// @Summary Подать заявку
// @Description Кандидат запрашивает число лотов; запрос сверх остатка авто-отклоняется
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID размещения"
// @Param request body dto.ApplyRequest true "Число лотов"
// @Success 201 {object} dto.ApplyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/ipos/{id}/apply [post]
func (h *APIHandler) ApplyForIPO(c *gin.Context) {
	p, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	ipoID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	var request dto.ApplyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Engine.SubmitApplication(c.Request.Context(), p.ID, ipoID, request.Lots)
	if err != nil {
		h.allotmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ApplyResponse{
		ApplicationID: result.Application.ID,
		Status:        result.Application.Status,
		RequestedLots: result.RequestedLots,
		RemainingLots: result.RemainingLots,
	})
}

// GetMyApplications заявки кандидата
// @Summary Мои заявки
// @Description Заявки кандидата; для одобренных добавлено подтверждение аллотмента
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ApplicationListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/applications [get]
func (h *APIHandler) GetMyApplications(c *gin.Context) {
	p, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	rows, err := h.Repository.GetCandidateApplications(p.ID)
	if err != nil {
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load applications")
		return
	}

	applications := make([]dto.CandidateApplicationResponse, 0, len(rows))
	for _, row := range rows {
		resp := dto.CandidateApplicationResponse{CandidateApplicationRow: row}
		if row.Status == ds.StatusApproved {
			resp.SharesAllotted = row.LotsApplied * row.LotSize
		}
		applications = append(applications, resp)
	}

	c.JSON(http.StatusOK, dto.ApplicationListResponse{
		Applications: applications,
		Total:        len(applications),
	})
}

// GetIPOApplications заявки одного размещения
// @Summary Заявки на IPO
// @Description Все заявки размещения с данными кандидатов; только для компании-владельца
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID размещения"
// @Success 200 {object} dto.IPOApplicationListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ipos/{id}/applications [get]
func (h *APIHandler) GetIPOApplications(c *gin.Context) {
	p, ok := h.getPrincipal(c)
	if !ok {
		return
	}

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
	if ipo.CompanyID != p.ID {
		h.errorResponse(c, http.StatusNotFound, "ipo not found")
		return
	}

	rows, err := h.Repository.GetIPOApplications(ipoID)
	if err != nil {
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to load applications")
		return
	}

	c.JSON(http.StatusOK, dto.IPOApplicationListResponse{
		Applications: rows,
		Total:        len(rows),
	})
}

// DecideApplication решение по заявке
// @Summary Решение по заявке
// @Description Компания одобряет или отклоняет pending-заявку на своё размещение
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.DecisionRequest true "Новый статус"
// @Success 200 {object} dto.DecisionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/applications/{id}/decision [put]
func (h *APIHandler) DecideApplication(c *gin.Context) {
	p, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	applicationID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	var request dto.DecisionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	app, err := h.Engine.DecideApplication(c.Request.Context(), p.ID, applicationID, request.Status)
	if err != nil {
		h.allotmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DecisionResponse{
		ApplicationID:   app.ID,
		Status:          app.Status,
		RejectionReason: app.RejectionReason,
	})
}

// GetAllotmentReport сводка по заявкам размещения
// @Summary Отчёт по аллотменту
// @Description Счётчики и суммы лотов по статусам; только для компании-владельца
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID размещения"
// @Success 200 {object} allotment.Report
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ipos/{id}/report [get]
func (h *APIHandler) GetAllotmentReport(c *gin.Context) {
	p, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	ipoID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	ipo, err := h.Repository.GetIPOByID(ipoID)
	if err != nil || ipo.CompanyID != p.ID {
		h.errorResponse(c, http.StatusNotFound, "ipo not found")
		return
	}

	report, err := h.Engine.Report(c.Request.Context(), ipoID)
	if err != nil {
		h.allotmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
