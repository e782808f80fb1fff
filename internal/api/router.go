package api

import (
	"net/http"

	"github.com/gorilla/mux"

	getCapacityHistoryHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_capacity_history"
	getScheduleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_schedule"
	saveScheduleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/save_schedule"
	updateCapacityHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_capacity"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
)

// ScheduleService всё, что нужно маршрутам API от сервиса расписаний
type ScheduleService interface {
	getScheduleHandler.ScheduleService
	saveScheduleHandler.ScheduleService
	updateCapacityHandler.ScheduleService
	getCapacityHistoryHandler.ScheduleService
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewRouter регистрирует маршруты API шлюза расписаний.
// metrics может быть nil, тогда HTTP метрики не собираются.
func NewRouter(service ScheduleService, metrics middleware.HTTPMetrics, logger Logger) *mux.Router {
	getSchedule := getScheduleHandler.NewHandler(service, logger)
	saveSchedule := saveScheduleHandler.NewHandler(service, logger)
	updateCapacity := updateCapacityHandler.NewHandler(service, logger)
	getCapacityHistory := getCapacityHistoryHandler.NewHandler(service, logger)

	r := mux.NewRouter()
	if metrics != nil {
		r.Use(middleware.MetricsMiddleware(metrics))
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Actor)

	// --- Расписание ---
	api.HandleFunc("/owners/{ownerId}/schedule", getSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/owners/{ownerId}/schedule", saveSchedule.Handle).Methods(http.MethodPut)

	// --- Ёмкость слотов ---
	api.HandleFunc("/owners/{ownerId}/slots/{batchId}/token", updateCapacity.Handle).Methods(http.MethodPost)
	api.HandleFunc("/owners/{ownerId}/slots/{batchId}/history", getCapacityHistory.Handle).Methods(http.MethodGet)

	return r
}
