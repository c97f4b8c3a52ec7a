package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("ATT_AUTH_JWT_SECRET", "0123456789abcdef-secret")
	t.Setenv("ATT_ATTENDANCE_LATE_TOLERANCE_MINUTES", "5")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\nattendance:\n  work_start: \"07:30\"\n"), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望端口 9090，实际 %d", cfg.Server.Port)
	}
	if cfg.Attendance.WorkStart != "07:30" {
		t.Errorf("期望上班时间 07:30，实际 %s", cfg.Attendance.WorkStart)
	}
	if cfg.Attendance.LateToleranceMinutes != 5 {
		t.Errorf("环境变量应覆盖默认值，实际 %d", cfg.Attendance.LateToleranceMinutes)
	}
	if cfg.Attendance.CodeValidity != 24*time.Hour {
		t.Errorf("期望默认有效期 24h，实际 %s", cfg.Attendance.CodeValidity)
	}
	if cfg.Attendance.Timezone != "Asia/Jakarta" || cfg.Attendance.CodePrefix != "JASAKULA" {
		t.Errorf("默认考勤配置不符: %+v", cfg.Attendance)
	}
	if cfg.Redis.Channel != "attendance.changed" {
		t.Errorf("期望默认频道 attendance.changed，实际 %s", cfg.Redis.Channel)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Auth:   AuthConfig{JWTSecret: "0123456789abcdef"},
			Attendance: AttendanceConfig{
				Timezone:     "UTC",
				WorkStart:    "08:00",
				CodeValidity: time.Hour,
				CodePrefix:   "JASAKULA",
			},
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}

	cases := map[string]func(*Config){
		"密钥过短":   func(c *Config) { c.Auth.JWTSecret = "short" },
		"端口越界":   func(c *Config) { c.Server.Port = 70000 },
		"非法时区":   func(c *Config) { c.Attendance.Timezone = "Nowhere/City" },
		"上班时间格式": func(c *Config) { c.Attendance.WorkStart = "8am" },
		"负容忍时长":  func(c *Config) { c.Attendance.LateToleranceMinutes = -1 },
		"零有效期":   func(c *Config) { c.Attendance.CodeValidity = 0 },
		"空前缀":    func(c *Config) { c.Attendance.CodePrefix = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("期望校验失败")
			}
		})
	}
}
