package main

import (
	"context"
	"fmt"
	"sort"

	"pipespec/internal/app/dsn"
	"pipespec/internal/app/repository"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.Ping(ctx); err != nil {
		logrus.Fatal("Database is not reachable:", err)
	}

	counts, err := repo.DefaultCounts(ctx)
	if err != nil {
		logrus.Fatal("Failed to count catalogs:", err)
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Default catalogs in database:")
	for _, name := range names {
		fmt.Printf("%-24s %d\n", name, counts[name])
	}
}
