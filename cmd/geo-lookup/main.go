// geo-lookup：命令行查询工具；与前端页面走同一校验与后端调用流程，便于运维排查后端连通性
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
