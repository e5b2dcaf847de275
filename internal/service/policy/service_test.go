package policy

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	"github.com/m04kA/SMC-DeskBookingService/internal/service/policy/models"
	"github.com/m04kA/SMC-DeskBookingService/internal/testfixtures/memstore"
	"github.com/m04kA/SMC-DeskBookingService/pkg/logger"
	"github.com/m04kA/SMC-DeskBookingService/pkg/ptr"
)

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func defaultPolicy() domain.BookingTimeLimitsPolicy {
	return domain.BookingTimeLimitsPolicy{
		MinHours: 1, MaxHours: 8, LunchStartHour: 13, LunchEndHour: 14,
		OfficeStartHour: 9, OfficeEndHour: 18, MaxDaysInAdvance: 14, MaxHoursPerWeek: 40, IsActive: true,
	}
}

func newService() (*Service, *memstore.Store) {
	store := memstore.New(clockwork.NewFakeClock())
	store.AddPolicy(defaultPolicy())
	return NewService(store, store, logger.NewNop()), store
}

func TestService_GetActive(t *testing.T) {
	service, _ := newService()

	resp, err := service.GetActive(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 14, resp.MaxDaysInAdvance)
	assert.Equal(t, 40, resp.MaxHoursPerWeek)
}

func TestService_GetActive_Misconfigured(t *testing.T) {
	store := memstore.New(nil)
	service := NewService(store, store, logger.NewNop())

	_, err := service.GetActive(context.Background())
	assert.ErrorIs(t, err, ErrNoActivePolicy)

	store.AddPolicy(defaultPolicy())
	store.AddPolicy(defaultPolicy())

	_, err = service.GetActive(context.Background())
	assert.ErrorIs(t, err, ErrNoActivePolicy)
}

func TestService_Update(t *testing.T) {
	service, store := newService()

	resp, err := service.Update(context.Background(), &models.UpdatePolicyRequest{
		Actor:            admin,
		MaxDaysInAdvance: ptr.Ptr(30),
		MaxHoursPerWeek:  ptr.Ptr(20),
	})

	require.NoError(t, err)
	assert.Equal(t, 30, resp.MaxDaysInAdvance)
	assert.Equal(t, 20, resp.MaxHoursPerWeek)
	assert.Equal(t, 8, resp.MaxHours)

	active, err := store.GetActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, active.MaxDaysInAdvance)
}

func TestService_Update_AccessDenied(t *testing.T) {
	service, _ := newService()

	_, err := service.Update(context.Background(), &models.UpdatePolicyRequest{
		Actor:           domain.Actor{UserID: 7, Role: domain.RoleUser},
		MaxHoursPerWeek: ptr.Ptr(20),
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Update_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpdatePolicyRequest
	}{
		{"days below range", models.UpdatePolicyRequest{MaxDaysInAdvance: ptr.Ptr(0)}},
		{"days above range", models.UpdatePolicyRequest{MaxDaysInAdvance: ptr.Ptr(366)}},
		{"week hours below range", models.UpdatePolicyRequest{MaxHoursPerWeek: ptr.Ptr(0)}},
		{"week hours above range", models.UpdatePolicyRequest{MaxHoursPerWeek: ptr.Ptr(169)}},
		{"hour of day above range", models.UpdatePolicyRequest{OfficeEndHour: ptr.Ptr(25)}},
		{"negative hour", models.UpdatePolicyRequest{LunchStartHour: ptr.Ptr(-1)}},
		{"min above max", models.UpdatePolicyRequest{MinHours: ptr.Ptr(9)}},
		{"lunch inverted", models.UpdatePolicyRequest{LunchStartHour: ptr.Ptr(14), LunchEndHour: ptr.Ptr(13)}},
		{"office empty", models.UpdatePolicyRequest{OfficeStartHour: ptr.Ptr(18)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newService()
			req := tt.req
			req.Actor = admin

			_, err := service.Update(context.Background(), &req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			active, _ := store.GetActive(context.Background())
			assert.Equal(t, defaultPolicy().MaxDaysInAdvance, active.MaxDaysInAdvance)
			assert.Equal(t, defaultPolicy().OfficeEndHour, active.OfficeEndHour)
		})
	}
}

func TestService_Update_BoundaryValues(t *testing.T) {
	service, _ := newService()

	resp, err := service.Update(context.Background(), &models.UpdatePolicyRequest{
		Actor:            admin,
		MaxDaysInAdvance: ptr.Ptr(365),
		MaxHoursPerWeek:  ptr.Ptr(168),
		OfficeStartHour:  ptr.Ptr(0),
		OfficeEndHour:    ptr.Ptr(24),
	})

	require.NoError(t, err)
	assert.Equal(t, 365, resp.MaxDaysInAdvance)
	assert.Equal(t, 24, resp.OfficeEndHour)
}
