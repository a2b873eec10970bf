package main

import (
	"edu_portal/internal/app"
	"edu_portal/internal/config"
	"edu_portal/pkg/logger"
	"flag"
	"log"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件所在目录")
	watch := flag.Bool("watch", true, "配置文件变更时热加载 API 地址")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watch {
		application.ConfigDir = *configDir
	}
	application.Run()
}
