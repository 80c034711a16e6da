package main

import (
	"context"

	configPkg "github.com/KeynihAV/mtbridge/pkg/config"
	"github.com/KeynihAV/mtbridge/pkg/logging"
	tgbotDeliveryPkg "github.com/KeynihAV/mtbridge/pkg/tgbot/delivery"
	tgbotRepoPkg "github.com/KeynihAV/mtbridge/pkg/tgbot/repo"
	"go.uber.org/zap"
)

var appName = "tgbot"

func main() {
	logger := logging.New()
	defer logger.Zap.Sync()

	config := &configPkg.Config{}
	err := configPkg.Read(appName, config)
	if err != nil {
		logger.Zap.Fatal("read config",
			zap.String("logger", "ZAP"),
			zap.String("err: ", err.Error()))
	}

	err = StartTgBot(config, logger)
	if err != nil {
		logger.Zap.Fatal("start tgbot",
			zap.String("logger", "ZAP"),
			zap.String("err: ", err.Error()))
	}
}

func StartTgBot(config *configPkg.Config, logger *logging.Logger) error {
	bridgeRepo := tgbotRepoPkg.NewBridgeRepo(config)

	// the bot is useless without a connected terminal, so connect up front
	ctx, cancel := context.WithTimeout(context.Background(), config.Client.Timeout)
	resp, err := bridgeRepo.Connect(ctx)
	cancel()
	if err != nil {
		return err
	}
	if !resp.GetSuccess() {
		logger.Zap.Warn("bridge connect",
			zap.String("logger", "tgbot"),
			zap.String("err", resp.GetError().Error()),
		)
	}

	logger.Zap.Info("starting tgbot",
		zap.String("logger", "ZAP"),
		zap.Int("port", config.HTTP.Port),
		zap.String("bridge", config.Bot.BridgeEndpoint),
	)

	tgBot := tgbotDeliveryPkg.NewBridgeTgBot(bridgeRepo, config.Client.HistoryDays)
	err = tgbotDeliveryPkg.StartTgBot(config, tgBot, logger)
	if err != nil {
		logger.Zap.Error("start tgbot",
			zap.String("logger", "tgbot"),
			zap.String("err", err.Error()),
		)
		return err
	}
	return nil
}
