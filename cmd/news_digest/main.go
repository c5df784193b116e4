package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/iWorld-y/news_digest/internal/config"
	"github.com/iWorld-y/news_digest/internal/logger"
	"github.com/iWorld-y/news_digest/internal/pipeline"
)

// Options 命令行参数
type Options struct {
	Config string `short:"c" long:"config" default:"config.yaml" description:"配置文件路径"`
	Topic  string `short:"t" long:"topic" description:"要分析的事件主题，覆盖配置"`
	Output string `short:"o" long:"output" description:"输出目录，覆盖配置"`
	Once   bool   `long:"once" description:"忽略 schedule 配置，只执行一次"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	// 加载 .env（不存在时忽略），环境变量参与配置覆盖
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath(opts.Config))
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if opts.Topic != "" {
		cfg.Topic = opts.Topic
	}
	if opts.Output != "" {
		cfg.OutputDir = opts.Output
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动自动摘要系统...")

	ctx := context.Background()
	p := pipeline.New(ctx, cfg)

	if cfg.Schedule == "" || opts.Once {
		runOnce(ctx, p)
		return
	}

	// 定时模式：按 cron 表达式周期执行
	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() { runOnce(ctx, p) }); err != nil {
		logger.Log.Fatalf("无效的 schedule 配置 [%s]: %v", cfg.Schedule, err)
	}
	c.Start()
	logger.Log.Infof("定时任务已启动: %s", cfg.Schedule)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Log.Info("收到退出信号，停止定时任务")
	<-c.Stop().Done()
}

func runOnce(ctx context.Context, p *pipeline.Pipeline) {
	outputFile, err := p.Run(ctx)
	if err != nil {
		logger.Log.Errorf("摘要页面生成失败: %v", err)
		return
	}
	abs, err := filepath.Abs(outputFile)
	if err != nil {
		abs = outputFile
	}
	fmt.Printf("摘要页面已成功生成: %s\n", abs)
}

// configPath 配置文件不存在时退回纯环境变量模式
func configPath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
