package dto

// ── 二维码模块 DTO ──

// IssueQRCodeRequest 签发二维码请求；date 缺省为今天
type IssueQRCodeRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// QRCodeResponse 二维码信息响应
type QRCodeResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Date      string `json:"date"`
	IssuedAt  string `json:"issued_at"`
	ExpiresAt string `json:"expires_at"`
	IsActive  bool   `json:"is_active"`
}
