package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	dir := t.TempDir()
	configsDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(configsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte(`
grpc:
  port: 6000
terminal:
  backend: store
  calltimeout: 2s
`)
	if err := os.WriteFile(filepath.Join(configsDir, "bridge.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	t.Setenv("REDIS_ADDR", "redis://cache:6379/1")

	cfg := &Config{}
	if err := Read("bridge", cfg); err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{name: "Значение из файла", got: cfg.GRPC.Port, want: 6000},
		{name: "Длительность", got: cfg.Terminal.CallTimeout, want: 2 * time.Second},
		{name: "Бэкенд", got: cfg.Terminal.Backend, want: "store"},
		{name: "Значение по умолчанию", got: cfg.HTTP.Port, want: 8080},
		{name: "Переменная окружения", got: cfg.Redis.Addr, want: "redis://cache:6379/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestRead_NoFile(t *testing.T) {
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	if err := Read("missing", &Config{}); err == nil {
		t.Errorf("Read() expected error for missing config")
	}
}
