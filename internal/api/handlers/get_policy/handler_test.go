package get_policy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-DeskBookingService/internal/service/policy"
	"github.com/m04kA/SMC-DeskBookingService/internal/service/policy/models"
	"github.com/m04kA/SMC-DeskBookingService/pkg/logger"
)

type MockPolicyService struct {
	mock.Mock
}

func (m *MockPolicyService) GetActive(ctx context.Context) (*models.PolicyResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*models.PolicyResponse)
	return resp, args.Error(1)
}

func serve(h *Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/policy", nil))
	return w
}

func TestHandler_Handle(t *testing.T) {
	service := new(MockPolicyService)
	service.On("GetActive", mock.Anything).Return(&models.PolicyResponse{ID: 1, OfficeStartHour: 9, OfficeEndHour: 18}, nil)

	w := serve(NewHandler(service, logger.NewNop()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"officeEndHour":18`)
}

func TestHandler_NoActivePolicy(t *testing.T) {
	service := new(MockPolicyService)
	service.On("GetActive", mock.Anything).Return(nil, policy.ErrNoActivePolicy)

	w := serve(NewHandler(service, logger.NewNop()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), codeNoActivePolicy)
}
