package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/dto"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/model"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/policy"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/repository"
	pkgerrors "github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/errors"
)

// ── 考勤模块业务错误 ──

var (
	ErrAlreadyCompleted = errors.New("今日已完成签到和签退")
	// ErrConcurrentConflict 同一员工同一天的并发扫码竞争，未产生任何写入，可直接重试
	ErrConcurrentConflict = errors.New("并发冲突，请重试")
)

// ScanAction 扫码结果类型
type ScanAction string

const (
	ActionCheckedIn  ScanAction = "check_in"
	ActionCheckedOut ScanAction = "check_out"
)

// ScanOutcome 一次成功扫码的结果
// 失败情况一律以错误返回：ErrEmployeeNotFound、ErrEmployeeInactive、ErrCodeNotFound、
// ErrCodeInactive、ErrCodeExpired、ErrAlreadyCompleted、ErrConcurrentConflict
type ScanOutcome struct {
	Action   ScanAction
	Status   policy.Status // 签到时确定的状态；签退时为原签到状态
	Employee *model.Employee
	Record   *model.AttendanceRecord
}

// AttendanceService 考勤事件处理
type AttendanceService interface {
	// ProcessScan 处理一次扫码：无记录 → 签到；已签到未签退 → 签退；已签退 → ErrAlreadyCompleted
	ProcessScan(ctx context.Context, employeeCode, code string, now time.Time, callerID string) (*ScanOutcome, error)
	// ListByDate 某日考勤明细（含员工信息）
	ListByDate(ctx context.Context, date time.Time) ([]dto.AttendanceResponse, error)
	// DailySummary 某日统计；absent 为报表投影（在职人数 - present - late），并非记录状态
	DailySummary(ctx context.Context, date time.Time) (*dto.AttendanceSummaryResponse, error)
}

type attendanceService struct {
	repo      *repository.Repository
	directory EmployeeDirectory
	codes     QRCodeService
	policy    policy.Policy
	notifier  Notifier
	logger    *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(
	repo *repository.Repository,
	directory EmployeeDirectory,
	codes QRCodeService,
	pol policy.Policy,
	notifier Notifier,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{
		repo:      repo,
		directory: directory,
		codes:     codes,
		policy:    pol,
		notifier:  notifier,
		logger:    logger,
	}
}

// ════════════════════════════════════════════════════════════
// ProcessScan 状态机：每人每天 NoRecord → CheckedIn → CheckedOut
// ════════════════════════════════════════════════════════════

func (s *attendanceService) ProcessScan(ctx context.Context, employeeCode, code string, now time.Time, callerID string) (*ScanOutcome, error) {
	outcome, err := s.processScan(ctx, employeeCode, code, now, callerID)
	scanOutcomesTotal.WithLabelValues(outcomeLabel(outcome, err)).Inc()
	if err != nil {
		return nil, err
	}

	s.notify(ctx, outcome, now)
	return outcome, nil
}

func (s *attendanceService) processScan(ctx context.Context, employeeCode, code string, now time.Time, callerID string) (*ScanOutcome, error) {
	// 1. 员工校验（不写入任何数据）
	emp, err := s.directory.FindByCode(ctx, employeeCode)
	if err != nil {
		return nil, err
	}
	if !emp.IsActive {
		return nil, ErrEmployeeInactive
	}

	// 2. 二维码校验，错误原样返回
	dc, err := s.codes.Validate(ctx, code, now)
	if err != nil {
		return nil, err
	}

	// 3. 考勤日期取自二维码，而非扫码时间（跨零点扫码仍归属签发日）
	date := dc.CodeDate
	record, err := s.repo.Attendance.GetByEmployeeAndDate(ctx, emp.EmployeeID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询考勤记录失败", zap.String("employee_id", emp.EmployeeID), zap.Error(err))
		return nil, err
	}

	var caller *string
	if callerID != "" {
		caller = &callerID
	}

	switch {
	case record == nil:
		// 4. 签到：状态只在此刻确定
		status := s.policy.Classify(date, now)
		checkIn := now
		record = &model.AttendanceRecord{
			EmployeeID:     emp.EmployeeID,
			AttendanceDate: date,
			CheckInTime:    &checkIn,
			Status:         string(status),
			QRCodeID:       dc.QRCodeID,
		}
		record.CreatedBy = caller
		record.UpdatedBy = caller

		if err := s.repo.Attendance.Create(ctx, record); err != nil {
			return nil, s.writeError("签到", emp, err)
		}
		return &ScanOutcome{Action: ActionCheckedIn, Status: status, Employee: emp, Record: record}, nil

	case !record.IsCompleted():
		// 5. 签退：条件更新，仅当记录仍处于"已签到未签退"
		record.UpdatedBy = caller
		if err := s.repo.Attendance.CheckOut(ctx, record, now); err != nil {
			return nil, s.writeError("签退", emp, err)
		}
		return &ScanOutcome{Action: ActionCheckedOut, Status: policy.Status(record.Status), Employee: emp, Record: record}, nil

	default:
		// 6. 终态
		return nil, ErrAlreadyCompleted
	}
}

// ────────────────────── ListByDate ──────────────────────

func (s *attendanceService) ListByDate(ctx context.Context, date time.Time) ([]dto.AttendanceResponse, error) {
	records, err := s.repo.Attendance.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("查询考勤明细失败", zap.String("date", date.Format(policy.DateLayout)), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		result = append(result, *toAttendanceResponse(&records[i], records[i].Employee))
	}
	return result, nil
}

// ────────────────────── DailySummary ──────────────────────

func (s *attendanceService) DailySummary(ctx context.Context, date time.Time) (*dto.AttendanceSummaryResponse, error) {
	total, err := s.repo.Employee.CountActive(ctx)
	if err != nil {
		s.logger.Error("统计在职员工失败", zap.Error(err))
		return nil, err
	}
	counts, err := s.repo.Attendance.CountByStatus(ctx, date)
	if err != nil {
		s.logger.Error("统计考勤状态失败", zap.String("date", date.Format(policy.DateLayout)), zap.Error(err))
		return nil, err
	}

	present := counts[string(policy.StatusPresent)]
	late := counts[string(policy.StatusLate)]
	absent := total - present - late
	if absent < 0 {
		absent = 0 // 已停用员工的历史记录可能使差值为负
	}

	return &dto.AttendanceSummaryResponse{
		Date:           date.Format(policy.DateLayout),
		TotalEmployees: total,
		Present:        present,
		Late:           late,
		Absent:         absent,
		WorkStart:      s.policy.WorkStartTime(date).Format("15:04"),
		WorkEnd:        s.policy.WorkEndTime(date).Format("15:04"),
	}, nil
}

// ── 内部辅助方法 ──

// writeError 将并发竞争统一为 ErrConcurrentConflict，其余错误原样返回
func (s *attendanceService) writeError(action string, emp *model.Employee, err error) error {
	if pkgerrors.IsConflict(err) {
		s.logger.Warn(action+"并发冲突",
			zap.String("employee_code", emp.EmployeeCode),
			zap.Error(err),
		)
		return ErrConcurrentConflict
	}
	s.logger.Error(action+"写入失败",
		zap.String("employee_code", emp.EmployeeCode),
		zap.Error(err),
	)
	return err
}

// notify 发布考勤变更事件；失败只记日志，不影响已落库的结果
func (s *attendanceService) notify(ctx context.Context, outcome *ScanOutcome, now time.Time) {
	evt := AttendanceEvent{
		Type:         EventAttendanceChanged,
		Action:       string(outcome.Action),
		Status:       string(outcome.Status),
		AttendanceID: outcome.Record.AttendanceID,
		EmployeeID:   outcome.Employee.EmployeeID,
		EmployeeCode: outcome.Employee.EmployeeCode,
		EmployeeName: outcome.Employee.Name,
		Date:         outcome.Record.AttendanceDate.Format(policy.DateLayout),
		OccurredAt:   now,
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		if err := s.notifier.NotifyAttendanceChanged(notifyCtx, evt); err != nil {
			s.logger.Warn("考勤变更通知发送失败",
				zap.String("attendance_id", evt.AttendanceID),
				zap.Error(err),
			)
		}
	}()
}

// toAttendanceResponse 将 model.AttendanceRecord 转换为 dto.AttendanceResponse
func toAttendanceResponse(record *model.AttendanceRecord, emp *model.Employee) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		ID:             record.AttendanceID,
		AttendanceDate: record.AttendanceDate.Format(policy.DateLayout),
		Status:         record.Status,
		QRCodeID:       record.QRCodeID,
		CheckInTime:    formatTime(record.CheckInTime),
		CheckOutTime:   formatTime(record.CheckOutTime),
	}
	if emp != nil {
		resp.Employee = &dto.EmployeeBrief{
			ID:           emp.EmployeeID,
			EmployeeCode: emp.EmployeeCode,
			Name:         emp.Name,
			Department:   emp.Department,
			Position:     emp.Position,
		}
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
