package notification

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	"github.com/Financial-Times/http-handlers-go/v2/httphandlers"
	status "github.com/Financial-Times/service-status-go/httphandlers"
	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rcrowley/go-metrics"

	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/event"
)

// NotifyHandler serves the same batch pipeline over HTTP for local runs: the
// request body is the upload event payload, the response body is the envelope
// body under the envelope's status code.
func (h *UploadHandler) NotifyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tid := transactionidutils.GetTransactionIDFromRequest(r)
	ctx := transactionidutils.TransactionAwareContext(r.Context(), tid)

	var ev event.UploadEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "{\"message\":\"Invalid upload event payload: %v\"}", err)
		return
	}

	resp, _ := h.Handle(ctx, ev)

	w.Header().Set("X-Request-Id", tid)
	w.WriteHeader(resp.StatusCode)
	//nolint:errcheck
	w.Write([]byte(resp.Body))
}

func (h *UploadHandler) RegisterHandlers(healthService *HealthService, requestLoggingEnabled bool) *http.ServeMux {
	h.log.Info("Registering handlers")

	router := mux.NewRouter()
	nh := handlers.MethodHandler{
		"POST": http.HandlerFunc(h.NotifyHandler),
	}
	router.Handle("/notifications", nh)

	var monitoringRouter http.Handler = router
	if requestLoggingEnabled {
		monitoringRouter = httphandlers.TransactionAwareRequestLoggingHandler(h.log, monitoringRouter)
	}
	monitoringRouter = httphandlers.HTTPMetricsHandler(metrics.DefaultRegistry, monitoringRouter)

	h.log.Info("Registering admin handlers")

	hc := fthealth.HealthCheck{
		SystemCode:  healthService.config.appSystemCode,
		Name:        healthService.config.appName,
		Description: healthService.config.description,
		Checks:      healthService.Checks,
	}

	thc := fthealth.TimedHealthCheck{HealthCheck: hc, Timeout: 10 * time.Second}

	serveMux := http.NewServeMux()
	serveMux.HandleFunc("/__health", fthealth.Handler(thc))
	serveMux.HandleFunc(status.GTGPath, status.NewGoodToGoHandler(healthService.GTG))
	serveMux.HandleFunc(status.BuildInfoPath, status.BuildInfoHandler)
	serveMux.Handle("/", monitoringRouter)

	return serveMux
}
