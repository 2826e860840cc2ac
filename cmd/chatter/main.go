package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/park285/chess-chatter/internal/botapi"
	"github.com/park285/chess-chatter/internal/chatbuilder"
	"github.com/park285/chess-chatter/internal/chess/openings"
	appcfg "github.com/park285/chess-chatter/internal/config"
	"github.com/park285/chess-chatter/internal/games"
	"github.com/park285/chess-chatter/internal/metrics"
	"github.com/park285/chess-chatter/internal/obslog"
	"go.uber.org/zap"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	closeLog, err := obslog.InitFromEnv()
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer closeLog()
	logger := obslog.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := chatbuilder.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("chat_init_failed", zap.Error(err))
	}
	defer deps.Close()

	headers := botapi.BearerToken(cfg.API.Token)
	client := botapi.NewClient(cfg.API.BaseURL, botapi.WithHeaderProvider(headers))

	actx, acancel := context.WithTimeout(ctx, 10*time.Second)
	account, err := client.GetAccount(actx)
	acancel()
	if err != nil {
		logger.Warn("account_check_failed", zap.Error(err))
	} else {
		logger.Info("account_ok", zap.String("username", account.Username), zap.String("title", account.Title))
	}

	var ws *botapi.WebSocket
	if cfg.API.WSURL != "" {
		ws = botapi.NewWebSocket(cfg.API.WSURL, cfg.API.ReconnectAttempts, logger)
		ws.SetHeaderProvider(headers)
		ws.OnStateChange(func(state botapi.WebSocketState) {
			logger.Info("ws_state", zap.String("state", state.String()))
		})
	}

	chatDeps := deps.Chat
	chatDeps.Sender = botapi.NewEgress(cfg.API.Egress, cfg.API.DryRun, client, ws, logger)
	chatDeps.Account = client
	chatDeps.Console = os.Stdout
	mgr := games.NewManager(ctx, deps.Settings, chatDeps, logger)

	reload := func(c *openings.Corpus) {
		metrics.OpeningEntries.Set(float64(c.Len()))
		mgr.SetOpenings(c)
	}
	if err := openings.Watch(ctx, cfg.Openings.File, logger, reload); err != nil {
		logger.Warn("openings_watch_failed", zap.Error(err))
	}

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics_server_failed", zap.Error(err))
			}
		}()
		logger.Info("metrics_listening", zap.String("addr", cfg.MetricsAddr))
	}

	if ws == nil {
		logger.Fatal("event_feed_not_configured", zap.String("hint", "set API_WS_URL"))
	}
	ws.OnEvent(mgr.Dispatch)
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		logger.Warn("ws_connect_failed", zap.Error(err))
	}
	cancel()

	logger.Info("chatter_started",
		zap.String("username", cfg.Username),
		zap.String("egress", cfg.API.Egress),
		zap.Bool("commands", cfg.Chat.Commands),
	)
	<-ctx.Done()
	logger.Info("chatter_stopping")

	shutdown, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	_ = ws.Close(shutdown)
	mgr.Close()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdown)
	}
}
