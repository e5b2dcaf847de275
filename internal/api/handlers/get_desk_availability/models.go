package get_desk_availability

import (
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	getDeskAvailability "github.com/m04kA/SMC-DeskBookingService/internal/usecase/get_desk_availability"
)

// IntervalResponse занятый интервал [start, end)
type IntervalResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	DeskID        int64              `json:"deskId"`
	Date          string             `json:"date"`         // "2026-10-20"
	WorkdayStart  string             `json:"workdayStart"` // RFC3339
	WorkdayEnd    string             `json:"workdayEnd"`
	BusyIntervals []IntervalResponse `json:"busyIntervals"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(deskID int64, dateStr string) (*getDeskAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getDeskAvailability.Request{
		DeskID: deskID,
		Date:   date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDeskAvailability.Response) *AvailabilityResponse {
	intervals := make([]IntervalResponse, 0, len(resp.BusyIntervals))
	for _, interval := range resp.BusyIntervals {
		intervals = append(intervals, IntervalResponse{
			Start: interval.Start.Format(time.RFC3339),
			End:   interval.End.Format(time.RFC3339),
		})
	}

	return &AvailabilityResponse{
		DeskID:        resp.DeskID,
		Date:          resp.Date.Format(domain.DateFormat),
		WorkdayStart:  resp.WorkdayStart.Format(time.RFC3339),
		WorkdayEnd:    resp.WorkdayEnd.Format(time.RFC3339),
		BusyIntervals: intervals,
	}
}
