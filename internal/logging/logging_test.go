package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := Configure(logrus.New(), "debug", "JSON", &buf)
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %s", log.GetLevel())
	}
	log.WithField("screen", "map").Debug("hello")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %q", buf.String())
	}
	if entry["screen"] != "map" || entry["msg"] != "hello" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestConfigure_UnknownLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	log := Configure(logrus.New(), "chatty", "text", &buf)
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %s", log.GetLevel())
	}
	if !strings.Contains(buf.String(), "unknown log level") {
		t.Fatalf("missing warning: %q", buf.String())
	}
}
