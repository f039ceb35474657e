package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/seed"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var rngSeed uint64
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机任务, 2: 插入随机资源, 3: 从 CSV 导入任务, 4: 从 CSV 导入资源)")
	flag.IntVar(&n, "n", 0, "要插入的记录数量，为 0 时使用配置中的数量")
	flag.Uint64Var(&rngSeed, "seed", 0, "生成随机数据所用的种子，为 0 时随机选取")
	flag.StringVar(&file, "file", "", "导入的 CSV 文件路径，为空时使用自带的数据")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	if rngSeed == 0 {
		rngSeed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(rngSeed, rngSeed))

	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n == 0 {
			n = cfg.Seed.Tasks
		}
		if n < 0 {
			slog.Error("请输入合法的任务数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			task := utils.GenerateRandomTask(rng, i)
			if err := repo.CreateTask(task); err != nil {
				slog.Error("无法插入任务", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入任务成功", slog.Int("count", cnt), slog.Uint64("seed", rngSeed))
	case 2:
		if n == 0 {
			n = cfg.Seed.Resources
		}
		if n < 0 {
			slog.Error("请输入合法的资源数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			resource := utils.GenerateRandomResource(rng, i)
			if err := repo.CreateResource(resource); err != nil {
				slog.Error("无法插入资源", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入资源成功", slog.Int("count", cnt), slog.Uint64("seed", rngSeed))
	case 3:
		if file == "" {
			file = seed.DefaultTasksFile
		}

		cnt, err := seed.SeedTasksFromCSV(repo, file)
		if err != nil {
			slog.Error("导入任务失败", "file", file, "error", err)
			return
		}

		slog.Info("导入任务成功", slog.Int("count", cnt))
	case 4:
		if file == "" {
			file = seed.DefaultResourcesFile
		}

		cnt, err := seed.SeedResourcesFromCSV(repo, file)
		if err != nil {
			slog.Error("导入资源失败", "file", file, "error", err)
			return
		}

		slog.Info("导入资源成功", slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}
