package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/dto"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/policy"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/service"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	dates         *DateResolver
	clock         service.Clock
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService, dates *DateResolver, clock service.Clock) *AttendanceHandler {
	if clock == nil {
		clock = time.Now
	}
	return &AttendanceHandler{attendanceSvc: attendanceSvc, dates: dates, clock: clock}
}

// Scan 提交一次扫码（签到或签退由服务端判定）
// POST /api/v1/attendance/scan
func (h *AttendanceHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetSubjectID(c)
	if !ok {
		return
	}

	// 扫码时间以服务端时钟为准，不信任终端上报
	outcome, err := h.attendanceSvc.ProcessScan(c.Request.Context(), req.EmployeeID, req.Code, h.clock(), callerID)
	if err != nil {
		h.handleScanError(c, err)
		return
	}

	response.OK(c, toScanResponse(outcome))
}

// ListAttendance 某日考勤明细
// GET /api/v1/attendance
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	date, ok := h.dates.fromQuery(c)
	if !ok {
		return
	}

	records, err := h.attendanceSvc.ListByDate(c.Request.Context(), date)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": records, "date": date.Format(policy.DateLayout)})
}

// GetSummary 某日考勤统计
// GET /api/v1/attendance/summary
func (h *AttendanceHandler) GetSummary(c *gin.Context) {
	date, ok := h.dates.fromQuery(c)
	if !ok {
		return
	}

	summary, err := h.attendanceSvc.DailySummary(c.Request.Context(), date)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}

// handleScanError 扫码错误逐一映射，未知错误一律 500
func (h *AttendanceHandler) handleScanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 23001, "员工编号不存在")
	case errors.Is(err, service.ErrEmployeeInactive):
		response.Forbidden(c, 23002, "员工已停用")
	case errors.Is(err, service.ErrCodeNotFound):
		response.NotFound(c, 21001, "二维码无效")
	case errors.Is(err, service.ErrCodeInactive):
		response.Gone(c, 21002, "二维码已被替换，请扫描最新二维码")
	case errors.Is(err, service.ErrCodeExpired):
		response.Gone(c, 21003, "二维码已过期")
	case errors.Is(err, service.ErrAlreadyCompleted):
		response.Conflict(c, 22001, "今日已完成签到和签退")
	case errors.Is(err, service.ErrConcurrentConflict):
		response.Conflict(c, 22002, "请求冲突，请重试")
	default:
		response.InternalError(c)
	}
}

func toScanResponse(outcome *service.ScanOutcome) *dto.ScanResponse {
	resp := &dto.ScanResponse{
		Action: string(outcome.Action),
		Status: string(outcome.Status),
		Employee: dto.EmployeeBrief{
			ID:           outcome.Employee.EmployeeID,
			EmployeeCode: outcome.Employee.EmployeeCode,
			Name:         outcome.Employee.Name,
			Department:   outcome.Employee.Department,
			Position:     outcome.Employee.Position,
		},
		Attendance: &dto.AttendanceResponse{
			ID:             outcome.Record.AttendanceID,
			AttendanceDate: outcome.Record.AttendanceDate.Format(policy.DateLayout),
			Status:         outcome.Record.Status,
			QRCodeID:       outcome.Record.QRCodeID,
			CheckInTime:    formatTime(outcome.Record.CheckInTime),
			CheckOutTime:   formatTime(outcome.Record.CheckOutTime),
		},
	}

	switch {
	case outcome.Action == service.ActionCheckedOut:
		resp.Message = "签退成功"
	case outcome.Status == policy.StatusLate:
		resp.Message = "签到成功（迟到）"
	default:
		resp.Message = "签到成功"
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
