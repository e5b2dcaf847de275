package models

import (
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
)

// Request модели

// UpdatePolicyRequest запрос на изменение активной политики
// Все поля опциональны - обновляются только переданные значения
type UpdatePolicyRequest struct {
	Actor            domain.Actor
	MinHours         *int `json:"minHours,omitempty"`
	MaxHours         *int `json:"maxHours,omitempty"`
	LunchStartHour   *int `json:"lunchStartHour,omitempty"`
	LunchEndHour     *int `json:"lunchEndHour,omitempty"`
	OfficeStartHour  *int `json:"officeStartHour,omitempty"`
	OfficeEndHour    *int `json:"officeEndHour,omitempty"`
	MaxDaysInAdvance *int `json:"maxDaysInAdvance,omitempty"`
	MaxHoursPerWeek  *int `json:"maxHoursPerWeek,omitempty"`
}

// ApplyTo возвращает копию политики с переданными значениями
func (r *UpdatePolicyRequest) ApplyTo(p domain.BookingTimeLimitsPolicy) domain.BookingTimeLimitsPolicy {
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	set(&p.MinHours, r.MinHours)
	set(&p.MaxHours, r.MaxHours)
	set(&p.LunchStartHour, r.LunchStartHour)
	set(&p.LunchEndHour, r.LunchEndHour)
	set(&p.OfficeStartHour, r.OfficeStartHour)
	set(&p.OfficeEndHour, r.OfficeEndHour)
	set(&p.MaxDaysInAdvance, r.MaxDaysInAdvance)
	set(&p.MaxHoursPerWeek, r.MaxHoursPerWeek)

	return p
}

// Response модели

// PolicyResponse ответ с активной политикой бронирования
type PolicyResponse struct {
	ID               int64     `json:"id"`
	MinHours         int       `json:"minHours"`
	MaxHours         int       `json:"maxHours"`
	LunchStartHour   int       `json:"lunchStartHour"`
	LunchEndHour     int       `json:"lunchEndHour"`
	OfficeStartHour  int       `json:"officeStartHour"`
	OfficeEndHour    int       `json:"officeEndHour"`
	MaxDaysInAdvance int       `json:"maxDaysInAdvance"`
	MaxHoursPerWeek  int       `json:"maxHoursPerWeek"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.BookingTimeLimitsPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	return &PolicyResponse{
		ID:               p.ID,
		MinHours:         p.MinHours,
		MaxHours:         p.MaxHours,
		LunchStartHour:   p.LunchStartHour,
		LunchEndHour:     p.LunchEndHour,
		OfficeStartHour:  p.OfficeStartHour,
		OfficeEndHour:    p.OfficeEndHour,
		MaxDaysInAdvance: p.MaxDaysInAdvance,
		MaxHoursPerWeek:  p.MaxHoursPerWeek,
		UpdatedAt:        p.UpdatedAt,
	}
}
