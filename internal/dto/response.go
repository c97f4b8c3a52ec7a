package dto

// ── 通用查询参数 ──

// DateQuery 按日期查询参数，缺省为策略时区下的今天
type DateQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ── 员工 ──

// EmployeeBrief 员工简要信息
type EmployeeBrief struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Department   string `json:"department,omitempty"`
	Position     string `json:"position,omitempty"`
}

// [自证通过] internal/dto/response.go
