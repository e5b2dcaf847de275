package sweep_statuses

// Названия переходов для метрик
const (
	TransitionActivate = "activate"
	TransitionConfirm  = "confirm"
)

// Result число переведённых бронирований за один проход
type Result struct {
	Activated int64
	Confirmed int64
}

// Total общее число переходов
func (r Result) Total() int64 {
	return r.Activated + r.Confirmed
}
