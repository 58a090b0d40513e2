// cmd/tagfix - 一次性数据修复：合并仅大小写不同的重复标签。
// 历史写入路径没有统一归一化，可能留下 "Food" / "food" 两行；
// 本工具把重复行的关联全部改指到小写规范行后删除重复行。
// 属维护工具，不在线上请求路径中使用。
package main

import (
	"log"

	"github.com/Longchamps99/list-app-sub001/internal/config"
	"github.com/Longchamps99/list-app-sub001/internal/database"
	"github.com/Longchamps99/list-app-sub001/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	merged, err := services.NewTagService(db).MergeDuplicates()
	if err != nil {
		log.Fatalf("标签合并失败: %v", err)
	}

	log.Printf("标签合并完成，共处理 %d 个重复标签", merged)
}
