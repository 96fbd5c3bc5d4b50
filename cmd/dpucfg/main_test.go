package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/dpu"
)

const (
	testPlatform = "../../platform/testdata/platform.yaml"
	testFrame    = "../../platform/testdata/frame.yaml"
)

func TestRunDumpsRegisters(t *testing.T) {
	var out bytes.Buffer
	if err := run(testPlatform, testFrame, "mmio", true, time.Millisecond, true, &out); err != nil {
		t.Fatalf("run() = %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"ctl0 (scene-ctl @ 0x0)",
		"rdma0 (rdma-v2 @ 0x400)",
		"wb0 (wb-v2 @ 0xc00)",
		`dpu_register_writes_total{kind=mixer,path=frame}`,
		`dpu_register_writes_total{kind=mixer,path=stripe}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunWithoutAckTimesOut(t *testing.T) {
	var out bytes.Buffer
	err := run(testPlatform, testFrame, "mmio", false, 100*time.Microsecond, false, &out)
	if !errors.Is(err, dpu.ErrTimeout) {
		t.Errorf("run() = %v, want ErrTimeout", err)
	}
}

func TestRunUnknownConsumer(t *testing.T) {
	if err := run(testPlatform, testFrame, "dma", true, time.Millisecond, false, &bytes.Buffer{}); err == nil {
		t.Error("run() accepted an unknown consumer")
	}
}
