package dto

// ── 考勤模块 DTO ──

// ScanRequest 扫码请求，时间戳由服务端取
type ScanRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,max=50"`
	Code       string `json:"code"        binding:"required,max=100"`
}

// ScanResponse 扫码结果
type ScanResponse struct {
	Action     string              `json:"action"` // check_in | check_out
	Status     string              `json:"status"` // present | late
	Message    string              `json:"message"`
	Employee   EmployeeBrief       `json:"employee"`
	Attendance *AttendanceResponse `json:"attendance"`
}

// AttendanceResponse 考勤记录响应
type AttendanceResponse struct {
	ID             string         `json:"id"`
	AttendanceDate string         `json:"attendance_date"`
	Status         string         `json:"status"`
	QRCodeID       string         `json:"qr_code_id"`
	CheckInTime    *string        `json:"check_in_time"`
	CheckOutTime   *string        `json:"check_out_time"`
	Employee       *EmployeeBrief `json:"employee,omitempty"`
}

// AttendanceSummaryResponse 每日考勤统计
// Absent 为报表计算值，数据库中不存在 absent 记录
type AttendanceSummaryResponse struct {
	Date           string `json:"date"`
	TotalEmployees int64  `json:"total_employees"`
	Present        int64  `json:"present"`
	Late           int64  `json:"late"`
	Absent         int64  `json:"absent"`
	WorkStart      string `json:"work_start"`
	WorkEnd        string `json:"work_end"`
}
