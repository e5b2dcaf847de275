package update_policy

import (
	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	"github.com/m04kA/SMC-DeskBookingService/internal/service/policy/models"
)

// UpdatePolicyRequest HTTP request model
// Все поля опциональны, диапазоны дополнительно проверяет сервис
type UpdatePolicyRequest struct {
	MinHours         *int `json:"minHours,omitempty" validate:"omitempty,min=0,max=24"`
	MaxHours         *int `json:"maxHours,omitempty" validate:"omitempty,min=0,max=24"`
	LunchStartHour   *int `json:"lunchStartHour,omitempty" validate:"omitempty,min=0,max=24"`
	LunchEndHour     *int `json:"lunchEndHour,omitempty" validate:"omitempty,min=0,max=24"`
	OfficeStartHour  *int `json:"officeStartHour,omitempty" validate:"omitempty,min=0,max=24"`
	OfficeEndHour    *int `json:"officeEndHour,omitempty" validate:"omitempty,min=0,max=24"`
	MaxDaysInAdvance *int `json:"maxDaysInAdvance,omitempty" validate:"omitempty,min=1,max=365"`
	MaxHoursPerWeek  *int `json:"maxHoursPerWeek,omitempty" validate:"omitempty,min=1,max=168"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdatePolicyRequest) ToServiceRequest(actor domain.Actor) *models.UpdatePolicyRequest {
	return &models.UpdatePolicyRequest{
		Actor:            actor,
		MinHours:         r.MinHours,
		MaxHours:         r.MaxHours,
		LunchStartHour:   r.LunchStartHour,
		LunchEndHour:     r.LunchEndHour,
		OfficeStartHour:  r.OfficeStartHour,
		OfficeEndHour:    r.OfficeEndHour,
		MaxDaysInAdvance: r.MaxDaysInAdvance,
		MaxHoursPerWeek:  r.MaxHoursPerWeek,
	}
}
