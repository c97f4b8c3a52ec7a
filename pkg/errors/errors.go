package errors

import (
	"errors"

	"gorm.io/gorm"
)

// ErrOptimisticLock 乐观锁冲突：记录在读取之后已被其他请求修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// IsConflict 判断写入是否因并发竞争失败（版本号不匹配或唯一约束冲突）
// 此类失败没有部分写入，调用方可安全重试
func IsConflict(err error) bool {
	return errors.Is(err, ErrOptimisticLock) || errors.Is(err, gorm.ErrDuplicatedKey)
}
