package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pipespec/internal/app/dsn"
	"pipespec/internal/app/repository"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

func main() {
	seedPath := flag.String("seed", "config/seed.yaml", "файл с общими справочниками и тарифами")
	skipSeed := flag.Bool("skip-seed", false, "только миграция схемы")
	flag.Parse()

	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Check your .env file")
	}

	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.Migrate(ctx); err != nil {
		logrus.Fatal(err)
	}
	logrus.Info("Database migration completed successfully")

	if *skipSeed {
		return
	}

	data, err := readSeed(*seedPath)
	if err != nil {
		logrus.Fatal(err)
	}
	if err := repo.Seed(ctx, data); err != nil {
		logrus.Fatalf("Failed to seed database: %v", err)
	}
	logrus.Info("Database seeding completed successfully")
}

func readSeed(path string) (repository.SeedData, error) {
	var data repository.SeedData

	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("read seed file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return data, nil
}
