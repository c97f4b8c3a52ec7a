package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/model"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/repository"
)

// ── 员工目录业务错误 ──

var (
	ErrEmployeeNotFound = errors.New("员工编号不存在")
	ErrEmployeeInactive = errors.New("员工已停用")
)

// EmployeeDirectory 员工目录查询（只读）
type EmployeeDirectory interface {
	// FindByCode 按业务工号查询，不存在返回 ErrEmployeeNotFound；已停用员工照常返回，由调用方判断
	FindByCode(ctx context.Context, employeeCode string) (*model.Employee, error)
}

type employeeDirectory struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeDirectory 创建基于数据库的员工目录
func NewEmployeeDirectory(repo *repository.Repository, logger *zap.Logger) EmployeeDirectory {
	return &employeeDirectory{repo: repo, logger: logger}
}

func (d *employeeDirectory) FindByCode(ctx context.Context, employeeCode string) (*model.Employee, error) {
	emp, err := d.repo.Employee.GetByCode(ctx, employeeCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		d.logger.Error("查询员工失败", zap.String("employee_code", employeeCode), zap.Error(err))
		return nil, err
	}
	return emp, nil
}
