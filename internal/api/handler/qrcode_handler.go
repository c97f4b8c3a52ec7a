package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/dto"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/model"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/policy"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/service"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/response"
)

// QRCodeHandler 二维码模块 HTTP 处理器
type QRCodeHandler struct {
	qrCodeSvc service.QRCodeService
	dates     *DateResolver
}

// NewQRCodeHandler 创建 QRCodeHandler
func NewQRCodeHandler(qrCodeSvc service.QRCodeService, dates *DateResolver) *QRCodeHandler {
	return &QRCodeHandler{qrCodeSvc: qrCodeSvc, dates: dates}
}

// IssueQRCode 签发（或重新生成）某日二维码
// POST /api/v1/qr-codes
func (h *QRCodeHandler) IssueQRCode(c *gin.Context) {
	var req dto.IssueQRCodeRequest
	// 空请求体视为签发今天
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	date, ok := h.dates.resolve(c, req.Date)
	if !ok {
		return
	}

	callerID, ok := MustGetSubjectID(c)
	if !ok {
		return
	}

	code, err := h.qrCodeSvc.Issue(c.Request.Context(), date, callerID)
	if err != nil {
		h.handleQRCodeError(c, err)
		return
	}

	response.Created(c, toQRCodeResponse(code))
}

// GetCurrentQRCode 获取某日当前有效二维码（扫码终端展示用）
// GET /api/v1/qr-codes/current
func (h *QRCodeHandler) GetCurrentQRCode(c *gin.Context) {
	date, ok := h.dates.fromQuery(c)
	if !ok {
		return
	}

	code, err := h.qrCodeSvc.CurrentActive(c.Request.Context(), date)
	if err != nil {
		h.handleQRCodeError(c, err)
		return
	}

	response.OK(c, toQRCodeResponse(code))
}

// ListQRCodes 某日二维码签发记录
// GET /api/v1/qr-codes
func (h *QRCodeHandler) ListQRCodes(c *gin.Context) {
	date, ok := h.dates.fromQuery(c)
	if !ok {
		return
	}

	codes, err := h.qrCodeSvc.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.handleQRCodeError(c, err)
		return
	}

	list := make([]dto.QRCodeResponse, 0, len(codes))
	for i := range codes {
		list = append(list, *toQRCodeResponse(&codes[i]))
	}
	response.OK(c, gin.H{"list": list})
}

// handleQRCodeError 统一处理二维码模块业务错误
func (h *QRCodeHandler) handleQRCodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveCode):
		response.NotFound(c, 21004, "该日期暂无有效二维码")
	case errors.Is(err, service.ErrConcurrentConflict):
		response.Conflict(c, 21005, "二维码正在被其他请求更新，请重试")
	default:
		response.InternalError(c)
	}
}

func toQRCodeResponse(code *model.DailyCode) *dto.QRCodeResponse {
	return &dto.QRCodeResponse{
		ID:        code.QRCodeID,
		Code:      code.Code,
		Date:      code.CodeDate.Format(policy.DateLayout),
		IssuedAt:  code.IssuedAt.Format(time.RFC3339),
		ExpiresAt: code.ExpiresAt.Format(time.RFC3339),
		IsActive:  code.IsActive,
	}
}
