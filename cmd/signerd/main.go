package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-signer/internal/config"
	"github.com/tdex-network/tdex-signer/internal/core/application"
	"github.com/tdex-network/tdex-signer/internal/infrastructure/dialog"
	"github.com/tdex-network/tdex-signer/internal/infrastructure/entropy"
	rpcinterface "github.com/tdex-network/tdex-signer/internal/interfaces/rpc"
	"github.com/tdex-network/tdex-signer/pkg/stats"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
	if config.GetBool(config.LogToFileKey) {
		logFile := newLogFile(config.GetLogsDir())
		defer logFile.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	}

	datadir := config.GetDatadir()
	dbType := config.GetString(config.DBTypeKey)

	password, err := config.GetPassword()
	if err != nil {
		log.WithError(err).Fatal("failed to read password file")
	}
	w, err := entropy.OpenWallet(
		filepath.Join(datadir, entropy.SeedFilename), password,
	)
	if err != nil {
		log.WithError(err).Fatal(
			"failed to open seed file, run 'tdex-signer init' first",
		)
	}

	consentDialog, err := dialog.NewConsentDialog(
		config.GetString(config.ConsentModeKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init consent dialog")
	}

	var dbConfig interface{}
	switch dbType {
	case application.DBBadger, application.DBBolt:
		dbConfig = config.GetDbDir()
	case application.DBRedis:
		dbConfig = config.GetString(config.RedisAddrKey)
	}

	appConfig := &application.Config{
		DBType:         dbType,
		DBConfig:       dbConfig,
		Wallet:         w,
		ConsentDialog:  consentDialog,
		DerivationPath: config.GetDerivationPath(),
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid app config")
	}

	svc, err := rpcinterface.NewService(rpcinterface.ServiceOpts{
		Address:         fmt.Sprintf(":%d", config.GetInt(config.RPCListeningPortKey)),
		AllowedOrigins:  config.GetStringSlice(config.CORSAllowedOriginsKey),
		EnableMetrics:   config.GetBool(config.EnableMetricsKey),
		ShutdownTimeout: config.GetDuration(config.ShutdownTimeoutKey),
		SignerSvc:       appConfig.SignerService(),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to init rpc interface")
	}

	log.RegisterExitHandler(appConfig.KeyStore().Close)
	defer appConfig.KeyStore().Close()

	log.Infof("db type: %s", dbType)
	log.Infof("derivation path: %s", config.GetDerivationPath())
	log.Infof("consent mode: %s", config.GetString(config.ConsentModeKey))

	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start rpc interface")
	}
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if stats.EnableMemoryStatistics(ctx, config.GetDuration(config.StatsIntervalKey)) {
		log.Debug("memory statistics enabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
}

func newLogFile(logsDir string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, "signerd.log"),
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
}
