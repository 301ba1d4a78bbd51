package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/unkn0wn-root/versiondb"
)

func TestLogrusLoggerAddsComponent(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := New(base)

	l.Info("unloading dataset", versiondb.Fields{"key": "v1", "lastAccess": uint64(7)})

	e := hook.LastEntry()
	if e == nil {
		t.Fatalf("no entry logged")
	}
	if e.Message != "unloading dataset" || e.Level != logrus.InfoLevel {
		t.Fatalf("entry: %q %v", e.Message, e.Level)
	}
	if e.Data["component"] != "versiondb" || e.Data["key"] != "v1" || e.Data["lastAccess"] != uint64(7) {
		t.Fatalf("data=%v", e.Data)
	}

	l.Error("no fields", nil)
	if len(hook.AllEntries()) != 2 || hook.LastEntry().Level != logrus.ErrorLevel {
		t.Fatalf("error entry missing")
	}
}
