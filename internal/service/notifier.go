package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// EventAttendanceChanged 考勤变更事件类型
const EventAttendanceChanged = "attendance.changed"

// notifyTimeout 单次通知发送超时
const notifyTimeout = 2 * time.Second

// AttendanceEvent 推送给实时看板的考勤变更事件
type AttendanceEvent struct {
	Type         string    `json:"type"`
	Action       string    `json:"action"`
	Status       string    `json:"status"`
	AttendanceID string    `json:"attendance_id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeCode string    `json:"employee_code"`
	EmployeeName string    `json:"employee_name"`
	Date         string    `json:"date"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Notifier 考勤变更通知（fire-and-forget）
type Notifier interface {
	NotifyAttendanceChanged(ctx context.Context, evt AttendanceEvent) error
}

// Publisher 消息发布能力（pkg/redis.Client 实现）
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// ── Redis Pub/Sub 实现 ──

type pubSubNotifier struct {
	publisher Publisher
	channel   string
}

// NewPubSubNotifier 创建基于 Pub/Sub 频道的通知器
func NewPubSubNotifier(publisher Publisher, channel string) Notifier {
	return &pubSubNotifier{publisher: publisher, channel: channel}
}

func (n *pubSubNotifier) NotifyAttendanceChanged(ctx context.Context, evt AttendanceEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化考勤事件失败: %w", err)
	}
	return n.publisher.Publish(ctx, n.channel, payload)
}

// ── 空实现（Redis 不可用时降级） ──

type nopNotifier struct{}

// NewNopNotifier 创建不发送任何消息的通知器
func NewNopNotifier() Notifier { return nopNotifier{} }

func (nopNotifier) NotifyAttendanceChanged(context.Context, AttendanceEvent) error { return nil }
