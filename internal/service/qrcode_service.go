package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/model"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/policy"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/repository"
	pkgerrors "github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/errors"
)

// ── 二维码模块业务错误 ──

var (
	ErrCodeNotFound = errors.New("二维码不存在")
	ErrCodeInactive = errors.New("二维码已被新码替换")
	ErrCodeExpired  = errors.New("二维码已过期")
	ErrNoActiveCode = errors.New("该日期暂无有效二维码")
)

// maxIssueAttempts 同一日期并发签发冲突时的最大尝试次数
const maxIssueAttempts = 3

// QRCodeService 每日二维码生命周期管理
type QRCodeService interface {
	// Issue 为指定日期签发新码，原有效码在同一事务内失效
	Issue(ctx context.Context, date time.Time, callerID string) (*model.DailyCode, error)
	// CurrentActive 当前可扫的码；已过期的码即使 is_active 仍为 true 也不算（惰性过期）
	CurrentActive(ctx context.Context, date time.Time) (*model.DailyCode, error)
	// Validate 校验扫码内容：不存在 / 已替换 / 已过期
	Validate(ctx context.Context, code string, now time.Time) (*model.DailyCode, error)
	// ListByDate 该日期全部签发记录，最新在前
	ListByDate(ctx context.Context, date time.Time) ([]model.DailyCode, error)
}

type qrCodeService struct {
	repo   *repository.Repository
	policy policy.Policy
	prefix string
	clock  Clock
	logger *zap.Logger
}

// NewQRCodeService 创建 QRCodeService 实例
func NewQRCodeService(repo *repository.Repository, pol policy.Policy, prefix string, clock Clock, logger *zap.Logger) QRCodeService {
	if clock == nil {
		clock = time.Now
	}
	return &qrCodeService{repo: repo, policy: pol, prefix: prefix, clock: clock, logger: logger}
}

// ────────────────────── Issue ──────────────────────

func (s *qrCodeService) Issue(ctx context.Context, date time.Time, callerID string) (*model.DailyCode, error) {
	var lastErr error
	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		issuedAt := s.clock()
		code := &model.DailyCode{
			Code:      s.newCodeString(date),
			CodeDate:  date,
			IssuedAt:  issuedAt,
			ExpiresAt: issuedAt.Add(s.policy.CodeValidity()),
			IsActive:  true,
		}
		if callerID != "" {
			code.CreatedBy = &callerID
			code.UpdatedBy = &callerID
		}

		err := s.repo.DailyCode.Rotate(ctx, code)
		if err == nil {
			qrCodesIssuedTotal.Inc()
			s.logger.Info("二维码已签发",
				zap.String("date", date.Format(policy.DateLayout)),
				zap.String("qr_code_id", code.QRCodeID),
				zap.Time("expires_at", code.ExpiresAt),
			)
			return code, nil
		}
		if !pkgerrors.IsConflict(err) {
			s.logger.Error("签发二维码失败", zap.String("date", date.Format(policy.DateLayout)), zap.Error(err))
			return nil, err
		}

		// 同一日期另一请求刚完成轮换，重新读取当前状态再试
		lastErr = err
		qrCodeIssueConflictsTotal.Inc()
		s.logger.Warn("签发二维码并发冲突，重试",
			zap.String("date", date.Format(policy.DateLayout)),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Error("签发二维码多次冲突", zap.String("date", date.Format(policy.DateLayout)), zap.Error(lastErr))
	return nil, ErrConcurrentConflict
}

// ────────────────────── CurrentActive ──────────────────────

func (s *qrCodeService) CurrentActive(ctx context.Context, date time.Time) (*model.DailyCode, error) {
	code, err := s.repo.DailyCode.GetActiveByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveCode
		}
		s.logger.Error("查询有效二维码失败", zap.String("date", date.Format(policy.DateLayout)), zap.Error(err))
		return nil, err
	}
	if code.ExpiredAt(s.clock()) {
		return nil, ErrNoActiveCode
	}
	return code, nil
}

// ────────────────────── Validate ──────────────────────

func (s *qrCodeService) Validate(ctx context.Context, code string, now time.Time) (*model.DailyCode, error) {
	dc, err := s.repo.DailyCode.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		s.logger.Error("查询二维码失败", zap.Error(err))
		return nil, err
	}

	// 轮换优先于过期：被替换的码即使未到期也不可用
	if !dc.IsActive {
		return nil, ErrCodeInactive
	}
	if dc.ExpiredAt(now) {
		return nil, ErrCodeExpired
	}
	return dc, nil
}

// ────────────────────── ListByDate ──────────────────────

func (s *qrCodeService) ListByDate(ctx context.Context, date time.Time) ([]model.DailyCode, error) {
	codes, err := s.repo.DailyCode.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("查询二维码签发记录失败", zap.String("date", date.Format(policy.DateLayout)), zap.Error(err))
		return nil, err
	}
	return codes, nil
}

// ── 内部辅助方法 ──

// newCodeString 生成 <前缀>_<日期>_<随机串>，日期与 UUID 保证跨日期唯一
func (s *qrCodeService) newCodeString(date time.Time) string {
	return fmt.Sprintf("%s_%s_%s",
		s.prefix,
		date.Format(policy.DateLayout),
		strings.ReplaceAll(uuid.NewString(), "-", ""),
	)
}
