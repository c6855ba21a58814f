package metrics

import (
	"testing"
	"time"
)

func TestRecordError(t *testing.T) {
	// just test that it doesn't panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("RecordError panic'd")
		}
	}()

	RecordError("test_error")
}

func TestRecordTest(t *testing.T) {
	// Test recording for different status values
	RecordTest("cpu_stress", "completed", 92, time.Minute)
	RecordTest("memory_validation", "failed", 0, 30*time.Second)
	RecordTest("network", "skipped", 100, 0)
}

func TestRecordSuite(t *testing.T) {
	RecordSuite("run-1", "completed", 88, 2*time.Hour)
	RecordSuite("run-2", "failed", 12, time.Minute)
}
