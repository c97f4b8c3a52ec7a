package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/model"
	pkgerrors "github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/errors"
)

// 所有 mock 返回副本，模拟数据库读出的独立快照；写入按唯一约束 / 条件更新语义处理

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]*model.Employee // key: employee_code
	err       error
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	m := &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
	m.add(&model.Employee{EmployeeID: "emp-001", EmployeeCode: "EMP001", Name: "Budi Santoso", Department: "Operasional", IsActive: true})
	m.add(&model.Employee{EmployeeID: "emp-002", EmployeeCode: "EMP002", Name: "Siti Rahma", Department: "Keuangan", IsActive: true})
	m.add(&model.Employee{EmployeeID: "emp-009", EmployeeCode: "EMP009", Name: "Agus Pratama", Department: "Gudang", IsActive: false})
	return m
}

func (m *mockEmployeeRepo) add(emp *model.Employee) {
	m.employees[emp.EmployeeCode] = emp
}

func (m *mockEmployeeRepo) GetByCode(_ context.Context, code string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if emp, ok := m.employees[code]; ok {
		cp := *emp
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, emp := range m.employees {
		if emp.EmployeeID == id {
			cp := *emp
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) CountActive(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, emp := range m.employees {
		if emp.IsActive {
			n++
		}
	}
	return n, nil
}

// ── Mock DailyCodeRepository ──

type mockDailyCodeRepo struct {
	mu    sync.Mutex
	codes []*model.DailyCode
	seq   int

	rotateErr error
	// conflictsLeft 模拟并发签发撞上部分唯一索引的次数
	conflictsLeft int
}

func newMockDailyCodeRepo() *mockDailyCodeRepo {
	return &mockDailyCodeRepo{}
}

func (m *mockDailyCodeRepo) Rotate(_ context.Context, code *model.DailyCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rotateErr != nil {
		return m.rotateErr
	}
	if m.conflictsLeft > 0 {
		m.conflictsLeft--
		return gorm.ErrDuplicatedKey
	}
	for _, c := range m.codes {
		if c.Code == code.Code {
			return gorm.ErrDuplicatedKey
		}
	}

	for _, c := range m.codes {
		if c.IsActive && dayKey(c.CodeDate) == dayKey(code.CodeDate) {
			c.IsActive = false
		}
	}
	m.seq++
	code.QRCodeID = fmt.Sprintf("qr-%03d", m.seq)
	code.IsActive = true
	cp := *code
	m.codes = append(m.codes, &cp)
	return nil
}

func (m *mockDailyCodeRepo) GetByCode(_ context.Context, code string) (*model.DailyCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDailyCodeRepo) GetActiveByDate(_ context.Context, date time.Time) (*model.DailyCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.IsActive && dayKey(c.CodeDate) == dayKey(date) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDailyCodeRepo) ListByDate(_ context.Context, date time.Time) ([]model.DailyCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.DailyCode
	for _, c := range m.codes {
		if dayKey(c.CodeDate) == dayKey(date) {
			result = append(result, *c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].IssuedAt.After(result[j].IssuedAt) })
	return result, nil
}

func (m *mockDailyCodeRepo) activeCount(date time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.codes {
		if c.IsActive && dayKey(c.CodeDate) == dayKey(date) {
			n++
		}
	}
	return n
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*model.AttendanceRecord // key: employee_id|date
	seq     int

	// 读后写窗口：Get 返回后、写入前执行，用于制造并发交错
	afterGet func()
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func attendanceKey(employeeID string, date time.Time) string {
	return employeeID + "|" + dayKey(date)
}

func (m *mockAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*model.AttendanceRecord, error) {
	m.mu.Lock()
	rec, ok := m.records[attendanceKey(employeeID, date)]
	var cp model.AttendanceRecord
	if ok {
		cp = *rec
	}
	hook := m.afterGet
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &cp, nil
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := attendanceKey(record.EmployeeID, record.AttendanceDate)
	if _, exists := m.records[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	m.seq++
	record.AttendanceID = fmt.Sprintf("att-%03d", m.seq)
	record.Version = 1
	cp := *record
	m.records[key] = &cp
	return nil
}

func (m *mockAttendanceRepo) CheckOut(_ context.Context, record *model.AttendanceRecord, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.records[attendanceKey(record.EmployeeID, record.AttendanceDate)]
	if !ok || stored.AttendanceID != record.AttendanceID ||
		stored.Version != record.Version || stored.CheckOutTime != nil || stored.CheckInTime == nil {
		return pkgerrors.ErrOptimisticLock
	}
	stored.CheckOutTime = &at
	stored.Version++
	record.CheckOutTime = &at
	record.Version = stored.Version
	return nil
}

func (m *mockAttendanceRepo) ListByDate(_ context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AttendanceRecord
	for _, rec := range m.records {
		if dayKey(rec.AttendanceDate) == dayKey(date) {
			result = append(result, *rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AttendanceID < result[j].AttendanceID })
	return result, nil
}

func (m *mockAttendanceRepo) CountByStatus(_ context.Context, date time.Time) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int64)
	for _, rec := range m.records {
		if dayKey(rec.AttendanceDate) == dayKey(date) {
			counts[rec.Status]++
		}
	}
	return counts, nil
}

func (m *mockAttendanceRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// ── Mock Notifier ──

type mockNotifier struct {
	mu     sync.Mutex
	events []AttendanceEvent
	err    error
	sent   chan struct{}
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{sent: make(chan struct{}, 64)}
}

func (n *mockNotifier) NotifyAttendanceChanged(_ context.Context, evt AttendanceEvent) error {
	n.mu.Lock()
	n.events = append(n.events, evt)
	err := n.err
	n.mu.Unlock()
	n.sent <- struct{}{}
	return err
}

// waitFor 等待 n 次通知，通知在独立 goroutine 中发送
func (n *mockNotifier) waitFor(count int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for i := 0; i < count; i++ {
		select {
		case <-n.sent:
		case <-deadline:
			return false
		}
	}
	return true
}

func (n *mockNotifier) snapshot() []AttendanceEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]AttendanceEvent(nil), n.events...)
}
