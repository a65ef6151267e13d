package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"muse/internal/backend/googlesearch"
	"muse/internal/config"
	"muse/internal/exitcode"
	"muse/internal/habit"
	"muse/internal/proxy"
	"muse/internal/service"
	"muse/internal/session"
)

const shutdownTimeout = 5 * time.Second

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run the image search proxy" }
func (c *ServeCmd) Usage() string      { return "muse serve [--addr <addr>]" }
func (c *ServeCmd) NeedsService() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	addr := c.addr
	if addr == "" {
		addr = ":" + cfg.Env.Port
	}

	images, err := googlesearch.New(ctx, cfg.Env.GoogleAPIKey, cfg.Env.GoogleCX)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v (set GOOGLE_API_KEY and GOOGLE_CX)\n", err)
		return exitcode.ConfigError
	}

	logger, err := serverLogger(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to initialize logger: %v\n", err)
		return exitcode.ConfigError
	}
	defer logger.Sync()

	app := proxy.New(proxy.Config{
		Images: images,
		Store:  session.NewStore(habit.WithRollover(cfg.Env.Rollover)),
		Logger: logger,
	})

	// Bind before announcing, so the address printed is the one being served.
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(errOut, "error: server: %v\n", err)
		return exitcode.BackendError
	}

	logger.Info("server listening", zap.Stringer("addr", ln.Addr()), zap.Stringer("rollover", cfg.Env.Rollover))
	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on %s\n", ln.Addr())
	}

	stopped := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(stopped)
		err := app.Listener(ln)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-stopped:
			return nil
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := app.ShutdownWithContext(shutdownCtx)
		// Shutdown only closes listeners the server has registered; a
		// cancellation that wins the race with Listener must still stop it.
		ln.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(errOut, "error: server: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

// serverLogger returns a production JSON logger, or a development logger when
// Debug is set. Quiet drops request logs below warn level.
func serverLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	if cfg.Quiet {
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return zc.Build()
}
