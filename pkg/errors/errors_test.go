package errors

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsConflict(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"乐观锁", ErrOptimisticLock, true},
		{"包装后的乐观锁", fmt.Errorf("更新失败: %w", ErrOptimisticLock), true},
		{"唯一约束", gorm.ErrDuplicatedKey, true},
		{"记录不存在", gorm.ErrRecordNotFound, false},
		{"其他错误", errors.New("connection refused"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsConflict(tc.err); got != tc.want {
				t.Errorf("期望 %v，实际 %v", tc.want, got)
			}
		})
	}
}
