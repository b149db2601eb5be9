package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nijaru/yt-proxy/config"
	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(config.LogConfig{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("expected JSON formatter, got %T", log.Formatter)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(config.LogConfig{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := NewLogger(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	log.Info("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log file to have content")
	}
}

func TestFromContext(t *testing.T) {
	entry := logrus.NewEntry(logrus.New()).WithField("request_id", "abc")
	ctx := WithEntry(context.Background(), entry)

	if got := FromContext(ctx); got.Data["request_id"] != "abc" {
		t.Errorf("expected request-scoped entry, got %v", got.Data)
	}

	if got := FromContext(context.Background()); got == nil {
		t.Error("expected fallback entry")
	}
}
