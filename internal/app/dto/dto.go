package dto

import (
	"backend/internal/app/repository"
)

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Аутентификация ============

type CompanyRegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	CIN      string `json:"cin" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Sector   string `json:"sector" binding:"required"`
}

type CandidateRegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type PrincipalResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type LoginResponse struct {
	Token     string            `json:"token"`
	TokenType string            `json:"token_type"`
	ExpiresIn int               `json:"expires_in"`
	User      PrincipalResponse `json:"user"`
}

// ============ IPO-размещения ============

type CreateIPORequest struct {
	IssuePrice string `json:"issue_price" binding:"required"`
	LotSize    int    `json:"lot_size" binding:"required,gt=0"`
	TotalLots  int    `json:"total_lots" binding:"required,gt=0"`
	OpenDate   string `json:"open_date" binding:"required"`
	CloseDate  string `json:"close_date" binding:"required"`
}

type IPOListResponse struct {
	IPOs  []repository.IPOListRow `json:"ipos"`
	Total int                     `json:"total"`
}

type IPODetailResponse struct {
	repository.IPOListRow
	RemainingLots int `json:"remaining_lots"`
}

// ============ Заявки ============

type ApplyRequest struct {
	Lots int `json:"lots" binding:"required,gt=0"`
}

// Результат подачи заявки: при авто-отказе по ёмкости возвращаем
// запрошенное и оставшееся число лотов для отображения.
type ApplyResponse struct {
	ApplicationID uint   `json:"application_id"`
	Status        string `json:"status"`
	RequestedLots int    `json:"requested_lots"`
	RemainingLots int    `json:"remaining_lots"`
}

type DecisionRequest struct {
	Status string `json:"status" binding:"required,oneof=Approved Rejected"`
}

type DecisionResponse struct {
	ApplicationID   uint    `json:"application_id"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

// Заявка кандидата; для одобренной добавляем подтверждение аллотмента
// (число акций = лоты * размер лота).
type CandidateApplicationResponse struct {
	repository.CandidateApplicationRow
	SharesAllotted int `json:"shares_allotted,omitempty"`
}

type ApplicationListResponse struct {
	Applications []CandidateApplicationResponse `json:"applications"`
	Total        int                            `json:"total"`
}

type IPOApplicationListResponse struct {
	Applications []repository.IPOApplicationRow `json:"applications"`
	Total        int                            `json:"total"`
}
