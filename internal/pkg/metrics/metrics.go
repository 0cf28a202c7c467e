package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan outcome labels
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"

	ReasonMalformed    = "malformed_payload"
	ReasonTokenMissing = "token_missing"
	ReasonTokenExpired = "token_expired"
	ReasonEventUnknown = "event_not_found"
	ReasonOutsideDay   = "event_not_today"
	ReasonWindow       = "window_closed"
	ReasonDuplicate    = "duplicate"
	ReasonStorage      = "storage_error"
)

var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrams_scans_total",
		Help: "Scan attempts by outcome.",
	}, []string{"result", "type"})

	scanRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrams_scan_rejections_total",
		Help: "Rejected scans by reason.",
	}, []string{"reason"})

	qrFramesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrams_qr_frames_total",
		Help: "QR frames published to display streams.",
	}, []string{"type"})

	sessionLogins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrams_student_logins_total",
		Help: "Successful student session logins.",
	})
)

func ScanAccepted(scanType string) {
	scansTotal.WithLabelValues(ResultAccepted, scanType).Inc()
}

func ScanRejected(scanType, reason string) {
	scansTotal.WithLabelValues(ResultRejected, scanType).Inc()
	scanRejections.WithLabelValues(reason).Inc()
}

func QRFramePublished(scanType string) {
	qrFramesTotal.WithLabelValues(scanType).Inc()
}

func StudentLogin() {
	sessionLogins.Inc()
}
