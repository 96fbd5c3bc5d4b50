// Command dpucfg applies a frame description to a simulated DPU and dumps
// the resulting registers.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/dpu"
	"github.com/gogpu/dpu/cmdlist"
	"github.com/gogpu/dpu/metrics"
	"github.com/gogpu/dpu/mmio"
	"github.com/gogpu/dpu/platform"
	"github.com/gogpu/dpu/scene"
)

// Scene controller registers used to simulate the clear acknowledge.
const (
	sceneClear  = 0x18
	sceneStatus = 0x1C
)

func main() {
	var (
		platformPath = flag.String("platform", "platform.yaml", "platform description")
		framePath    = flag.String("frame", "frame.yaml", "frame description")
		consumer     = flag.String("consumer", "mmio", "command-list consumer ("+strings.Join(cmdlist.Consumers(), ", ")+")")
		noAck        = flag.Bool("no-ack", false, "never acknowledge scene clears")
		ackTimeout   = flag.Duration("ack-timeout", scene.DefaultAckTimeout, "clear acknowledge timeout")
		showMetrics  = flag.Bool("metrics", false, "print write counters")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	dpu.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*platformPath, *framePath, *consumer, !*noAck, *ackTimeout, *showMetrics, os.Stdout); err != nil {
		log.Fatalf("dpucfg: %v", err)
	}
}

func run(platformPath, framePath, consumerName string, ack bool, ackTimeout time.Duration, showMetrics bool, out io.Writer) error {
	p, err := platform.LoadFile(platformPath)
	if err != nil {
		return err
	}
	f, err := platform.LoadFrameFile(framePath)
	if err != nil {
		return err
	}

	mem := mmio.NewMemory(p.Region.Length)
	promReg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(promReg)
	if err != nil {
		return err
	}
	mgr := cmdlist.NewManager()
	reg, err := p.Build(mem, []dpu.RegionOption{dpu.WithObserver(collector)}, dpu.WithCommandList(mgr))
	if err != nil {
		return err
	}
	defer reg.Close()

	if ack {
		ctl, err := reg.Get(dpu.KindSceneCtl, f.Scene)
		if err != nil {
			return err
		}
		status := ctl.Offset() + sceneStatus
		mem.OnWrite(ctl.Offset()+sceneClear, func(_, _ uint32) { mem.Poke(status, 1) })
	}

	c, err := cmdlist.NewConsumer(consumerName, mem)
	if err != nil {
		return err
	}
	s, err := f.Apply(reg, scene.WithAckTimeout(ackTimeout))
	if err != nil {
		return err
	}
	if err := platform.Enable(context.Background(), s, mgr, c); err != nil {
		return err
	}

	dumpRegisters(out, reg, mem)
	if showMetrics {
		return dumpMetrics(out, promReg)
	}
	return nil
}

func dumpRegisters(out io.Writer, reg *dpu.Registry, mem *mmio.Memory) {
	snap := mem.Snapshot()
	for _, kind := range dpu.Kinds() {
		for _, b := range reg.Blocks(kind) {
			var lines []string
			for off := b.Offset(); off < b.Offset()+b.Length(); off += 4 {
				if v, ok := snap[off]; ok {
					lines = append(lines, fmt.Sprintf("  +%#05x  %#08x", off-b.Offset(), v))
				}
			}
			if len(lines) == 0 {
				continue
			}
			fmt.Fprintf(out, "%s (%s @ %#x)\n%s\n", b.Name(), b.Variant(), b.Offset(), strings.Join(lines, "\n"))
		}
	}
}

func dumpMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			var parts []string
			for _, k := range slices.Sorted(maps.Keys(labels)) {
				parts = append(parts, k+"="+labels[k])
			}
			fmt.Fprintf(out, "%s{%s} %g\n", mf.GetName(), strings.Join(parts, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}
