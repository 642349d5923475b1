package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Run 连接服务端并运行摄取、决策（以及可选的调试接口）直到出错或 ctx 取消。
// 流结束总是以错误返回：决策依赖新鲜数据，不能在旧快照上静默空转。
func Run(ctx context.Context, cfg *Config) error {
	strategy, err := GetStrategyRegistry().New(cfg.Decision.Strategy)
	if err != nil {
		return err
	}

	stream, err := Dial(ctx, cfg.Server.Target, cfg.Server.DialTimeout)
	if err != nil {
		return err
	}
	sess, err := NewSession(stream, cfg.Player.Name, cfg.Player.Color, cfg.Server.WriteTimeout)
	if err != nil {
		return err
	}
	defer sess.Close()

	world := NewWorld(cfg.World.PlayerCapacity)
	metrics := NewMetrics()
	decider := NewDecider(world, sess.Sender, strategy, sess.ID, cfg.Decision, metrics)
	ingestor := NewIngestor(world, metrics)

	Log.Infow("session started",
		"session", sess.SessionID,
		"target", cfg.Server.Target,
		"player_id", sess.ID,
		"strategy", cfg.Decision.Strategy)

	var srv *http.Server
	if cfg.Admin.Addr != "" {
		admin, err := NewAdmin(world, decider, metrics, sess.ID, sess.SessionID)
		if err != nil {
			return err
		}
		srv = &http.Server{Addr: cfg.Admin.Addr, Handler: admin.Handler()}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := ingestor.Run(gctx, sess.Lines)
		// 因其它任务结束而关闭连接导致的读错误不算失败原因
		if gctx.Err() != nil {
			return gctx.Err()
		}
		return err
	})

	g.Go(func() error {
		return decider.Run(gctx)
	})

	if srv != nil {
		g.Go(func() error {
			Log.Infof("admin listening on %s", cfg.Admin.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	// 阻塞中的读取只能通过关闭连接来打断
	g.Go(func() error {
		<-gctx.Done()
		_ = sess.Close()
		return nil
	})

	return g.Wait()
}
