package demo

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bryanbartow/reactor"
	"github.com/bryanbartow/reactor/internal/config"
	"github.com/bryanbartow/reactor/middleware"
	"github.com/bryanbartow/reactor/testutil"
)

func TestLight_React(t *testing.T) {
	tests := []struct {
		name  string
		start Light
		event reactor.Event
		want  Light
	}{
		{"red to green", Light{Color: Red}, Timer{}, Light{Color: Green, Ticks: 1}},
		{"green to yellow", Light{Color: Green}, Timer{}, Light{Color: Yellow, Ticks: 1}},
		{"yellow to red counts cycle", Light{Color: Yellow}, Timer{}, Light{Color: Red, Ticks: 1, Cycles: 1}},
		{"rush on red", Light{Color: Red}, Rush{}, Light{Color: Green, Rushes: 1}},
		{"rush on green ignored", Light{Color: Green}, Rush{}, Light{Color: Green}},
		{"unknown event ignored", Light{Color: Yellow}, "noise", Light{Color: Yellow}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.React(tt.event); got != tt.want {
				t.Errorf("React() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRushCommand_OnlyWhileRed(t *testing.T) {
	core := reactor.New(Light{Color: Red})
	core.FireCommand(RushCommand{})
	core.FireCommand(RushCommand{})

	// The commands run during the first drain; the Rush events they fire
	// queue behind it.
	if got := testutil.Drain(t, core); got.Rushes != 0 {
		t.Fatalf("Rushes = %d before the fired events ran, want 0", got.Rushes)
	}
	got := testutil.Drain(t, core)
	if got.Color != Green || got.Rushes != 1 {
		t.Errorf("state = %+v, want one rush to green", got)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig(flag.NewFlagSet("demo", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Ticks != 12 || cfg.Interval != 200*time.Millisecond || cfg.RushEvery != 5 {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestParseConfig_EnvAndFlags(t *testing.T) {
	t.Setenv("REACTOR_DEMO_TICKS", "7")
	t.Setenv("REACTOR_DEMO_JOURNAL", "/tmp/from-env.yaml")

	cfg, err := ParseConfig(flag.NewFlagSet("demo", flag.ContinueOnError), []string{"-journal", "flag.yaml"})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Ticks != 7 {
		t.Errorf("Ticks = %d, want 7", cfg.Ticks)
	}
	if cfg.Journal != "flag.yaml" {
		t.Errorf("Journal = %q, want flag.yaml", cfg.Journal)
	}
}

func TestParseConfig_RejectsNonPositiveTicks(t *testing.T) {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-ticks", "0"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRun(t *testing.T) {
	journal := filepath.Join(t.TempDir(), "journal.yaml")
	cfg := Config{
		Ticks:     6,
		Interval:  time.Millisecond,
		FrameRate: time.Millisecond,
		RushEvery: 3,
		Journal:   journal,
	}
	var out, logs bytes.Buffer

	final, err := Run(context.Background(), cfg, &out, log.New(&logs, "", 0))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if final.Ticks < cfg.Ticks {
		t.Errorf("Ticks = %d, want at least %d", final.Ticks, cfg.Ticks)
	}
	if !strings.Contains(out.String(), "sign: red") {
		t.Errorf("output = %q, want initial sign", out.String())
	}
	if !strings.Contains(out.String(), "final: color=") {
		t.Errorf("output = %q, want summary", out.String())
	}
	if !strings.Contains(logs.String(), "event=demo.Timer") {
		t.Errorf("logs = %q, want timer events", logs.String())
	}

	f, err := os.Open(journal)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	entries, err := middleware.ReadJournal[Light](f)
	if err != nil {
		t.Fatalf("ReadJournal: %v", err)
	}
	if len(entries) < cfg.Ticks {
		t.Fatalf("journal has %d entries, want at least %d", len(entries), cfg.Ticks)
	}
	if last := entries[len(entries)-1].State; last != final {
		t.Errorf("last journal state = %+v, want %+v", last, final)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{Ticks: 1000, Interval: time.Hour, FrameRate: time.Millisecond}

	_, err := Run(ctx, cfg, io.Discard, log.New(io.Discard, "", 0))
	if err != context.Canceled {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}
}

func TestParseConfig_RejectsNonPositive(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"ticks", []string{"-ticks", "0"}},
		{"interval", []string{"-interval", "-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(flag.NewFlagSet("demo", flag.ContinueOnError), tt.args)
			if code := config.ExitCode(err); code != config.ExitUsage {
				t.Errorf("ParseConfig(%v) error %v exits %d, want %d", tt.args, err, code, config.ExitUsage)
			}
		})
	}
}
