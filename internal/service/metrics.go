package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/policy"
)

// Prometheus 业务指标
var (
	scanOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_scan_outcomes_total",
			Help: "扫码处理结果计数",
		},
		[]string{"outcome"},
	)

	qrCodesIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_qr_codes_issued_total",
		Help: "二维码签发次数",
	})

	qrCodeIssueConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_qr_code_issue_conflicts_total",
		Help: "同一日期并发签发冲突次数",
	})
)

// outcomeLabel 扫码结果 → 指标标签（取值集合固定，避免高基数）
func outcomeLabel(outcome *ScanOutcome, err error) string {
	switch {
	case err == nil && outcome != nil && outcome.Action == ActionCheckedIn && outcome.Status == policy.StatusLate:
		return "checked_in_late"
	case err == nil && outcome != nil && outcome.Action == ActionCheckedIn:
		return "checked_in_present"
	case err == nil && outcome != nil:
		return "checked_out"
	case errors.Is(err, ErrEmployeeNotFound):
		return "employee_not_found"
	case errors.Is(err, ErrEmployeeInactive):
		return "employee_inactive"
	case errors.Is(err, ErrCodeNotFound):
		return "code_not_found"
	case errors.Is(err, ErrCodeInactive):
		return "code_inactive"
	case errors.Is(err, ErrCodeExpired):
		return "code_expired"
	case errors.Is(err, ErrAlreadyCompleted):
		return "already_completed"
	case errors.Is(err, ErrConcurrentConflict):
		return "concurrent_conflict"
	default:
		return "error"
	}
}
