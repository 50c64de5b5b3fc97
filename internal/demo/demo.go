package demo

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/bryanbartow/reactor"
	"github.com/bryanbartow/reactor/internal/config"
	"github.com/bryanbartow/reactor/middleware"
	"github.com/bryanbartow/reactor/realtime"
)

// ServiceName identifies the demo in telemetry.
const ServiceName = "reactor-demo"

const snapshotTimeout = 5 * time.Second

// Config holds demo settings.
type Config struct {
	Ticks     int           `env:"REACTOR_DEMO_TICKS" envDefault:"12"`
	Interval  time.Duration `env:"REACTOR_DEMO_INTERVAL" envDefault:"200ms"`
	FrameRate time.Duration `env:"REACTOR_DEMO_FRAME_RATE" envDefault:"16ms"`
	RushEvery int           `env:"REACTOR_DEMO_RUSH_EVERY" envDefault:"5"`
	Journal   string        `env:"REACTOR_DEMO_JOURNAL"`
}

// ParseConfig loads Config from the environment, then from flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	err := config.ParseConfigFromArgs(&cfg, fs, args, func(fs *flag.FlagSet, cfg *Config) {
		fs.IntVar(&cfg.Ticks, "ticks", cfg.Ticks, "timer ticks before exiting")
		fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "time between timer ticks")
		fs.DurationVar(&cfg.FrameRate, "frame-rate", cfg.FrameRate, "sign refresh interval")
		fs.IntVar(&cfg.RushEvery, "rush-every", cfg.RushEvery, "issue a rush command every N ticks (0 disables)")
		fs.StringVar(&cfg.Journal, "journal", cfg.Journal, "YAML journal path (empty disables)")
	})
	if err != nil {
		return Config{}, err
	}
	if cfg.Ticks <= 0 {
		return Config{}, config.Usagef("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.Interval <= 0 {
		return Config{}, config.Usagef("interval must be positive, got %v", cfg.Interval)
	}
	return cfg, nil
}

// Run drives the light until cfg.Ticks timer events were applied or ctx
// ends, and returns the final state.
func Run(ctx context.Context, cfg Config, out io.Writer, logger *log.Logger) (Light, error) {
	mws := []reactor.Middleware[Light]{
		middleware.NewLogger[Light](logger),
		middleware.NewTracer[Light](nil),
	}
	if cfg.Journal != "" {
		j, err := middleware.OpenJournal[Light](cfg.Journal)
		if err != nil {
			return Light{}, err
		}
		defer func() {
			if err := j.Close(); err != nil {
				logger.Printf("close journal: %v", err)
			}
		}()
		defer func() {
			if err := j.Err(); err != nil {
				logger.Printf("journal: %v", err)
			}
		}()
		mws = append(mws, j)
	}

	core := reactor.New(Light{Color: Red}, reactor.WithMiddleware(mws...))

	loop := realtime.NewLoop(realtime.Config{TickRate: cfg.FrameRate, Logger: logger})
	if err := loop.Start(ctx); err != nil {
		return Light{}, err
	}
	defer loop.Stop()

	sign := &Sign{out: out}
	reactor.Subscribe(core, sign, func(l Light) Color { return l.Color }, reactor.DeliverOn(loop))

	progress := newProgress(core, cfg.Ticks, cfg.RushEvery)
	reactor.Subscribe(core, progress, func(l Light) int { return l.Ticks }, reactor.DeliverOn(reactor.Inline))

	src := reactor.NewTickerSource(Timer{}, cfg.Interval)
	listening := core.Listen(ctx, src)

	var runErr error
	select {
	case <-progress.Done():
	case <-ctx.Done():
		runErr = ctx.Err()
	}
	src.Stop()
	<-listening

	reactor.Unsubscribe(core, progress)

	snapCtx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	final, err := core.Snapshot(snapCtx)
	if err != nil {
		return Light{}, fmt.Errorf("final snapshot: %w", err)
	}

	// Flush the frame that carries the final color.
	loop.Stop()
	loop.Tick()
	reactor.Unsubscribe(core, sign)

	fmt.Fprintf(out, "final: color=%s ticks=%d cycles=%d rushes=%d\n",
		final.Color, final.Ticks, final.Cycles, final.Rushes)
	return final, runErr
}
