package main

import (
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	ramp "crypto_ramp_back"
	"crypto_ramp_back/pkg/chainclient"
	"crypto_ramp_back/pkg/handler"
	"crypto_ramp_back/pkg/poller"
	"crypto_ramp_back/pkg/provider"
	"crypto_ramp_back/pkg/repository"
	"crypto_ramp_back/pkg/service"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.Infoln("starting ramp server")
	if err := godotenv.Load(); err != nil {
		logrus.Infof("could not load .env: %s", err)
	}

	if err := InitConfig(); err != nil {
		logrus.Fatalf("failed to read config.yml: %s", err.Error())
	}

	db, err := repository.NewPostgresDB(repository.Config{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   viper.GetString("db.dbname"),
		SSLMode:  viper.GetString("db.sslmode"),
	})
	if err != nil {
		logrus.Fatalf("failed to connect to the database: %s", err.Error())
	}
	logrus.Info("database connected")

	if err := repository.RunMigrations(db, viper.GetString("db.migrations")); err != nil {
		logrus.Fatalf("failed to run migrations: %s", err.Error())
	}

	repos := repository.NewRepository(db)

	providers := provider.NewRegistry(
		provider.NewMoonpayClient(viper.GetString("providers.moonpay.url"), os.Getenv("MOONPAY_API_KEY")),
		provider.NewOnramperClient(viper.GetString("providers.onramper.url"), os.Getenv("ONRAMPER_API_KEY")),
	)

	var chain poller.ChainChecker
	if rpcURL := os.Getenv("CHAIN_RPC_URL"); rpcURL != "" {
		chainClient, err := chainclient.Dial(rpcURL)
		if err != nil {
			logrus.Fatalf("failed to connect to chain RPC: %s", err.Error())
		}
		chain = chainClient
	} else {
		logrus.Warn("CHAIN_RPC_URL not set, on-chain receipt checks disabled")
	}

	pol := poller.New(repos.Transactions, chain,
		viper.GetDuration("poller.interval"),
		viper.GetInt("poller.max_attempts"))

	services := service.NewService(repos, providers, pol, service.Options{
		CoinGeckoURL:    viper.GetString("rates.coingecko_url"),
		CoinGeckoAPIKey: os.Getenv("COINGECKO_API_KEY"),
		Fiat:            viper.GetString("rates.fiat"),
		RateCacheTTL:    viper.GetDuration("rates.cache_ttl"),
		FeePercent:      viper.GetFloat64("fees.platform_percent"),
		SigningKey:      os.Getenv("JWT_SIGNING_KEY"),
		TokenTTL:        viper.GetDuration("auth.token_ttl"),
	})
	handlers := handler.NewHandler(services, viper.GetStringSlice("http.allowed_origins"))

	srv := new(ramp.Server)
	if err := srv.Run(os.Getenv("PORT"), handlers.InitRoute()); err != nil {
		logrus.Fatalf("server stopped: %s", err)
	}
}

func InitConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}
