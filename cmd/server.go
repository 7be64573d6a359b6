package main

import (
	"log"

	"github.com/nmamani/aymara-voices/internal/config"
	"github.com/nmamani/aymara-voices/internal/events"
	"github.com/nmamani/aymara-voices/internal/server"
	"github.com/nmamani/aymara-voices/pkg/db/aws"
	"github.com/nmamani/aymara-voices/pkg/db/postgres"
	"github.com/nmamani/aymara-voices/pkg/db/redis"
	"github.com/nmamani/aymara-voices/pkg/logger"
)

func main() {
	log.Println("Starting server")
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		log.Fatalf("could not connect to db: %s", err)
	}
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
	defer psqlDB.Close()

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("could not connect to redis: %s", err)
	}
	appLogger.Infof("redis connected")
	defer redisClient.Close()

	s3Client, presignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		log.Fatalf("could not connect to s3: %s", err)
	}

	publisher := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.PublishedTopic)

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, presignClient, publisher, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Infof("could not start server: %s", err)
	}
}
