package policy

import "errors"

var (
	// ErrNoActivePolicy возвращается, когда нет ни одной активной политики
	ErrNoActivePolicy = errors.New("policy.repository: no active booking time limits policy")

	// ErrMultipleActivePolicies возвращается, когда активных политик больше одной
	ErrMultipleActivePolicies = errors.New("policy.repository: more than one active booking time limits policy")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("policy.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("policy.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("policy.repository: failed to scan row")
)
