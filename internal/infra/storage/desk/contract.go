package desk

import "github.com/m04kA/SMC-DeskBookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
