// 包 version：前端版本标识；Commit 在构建时通过 -ldflags "-X ip-frontend/internal/version.Commit=..." 注入
package version

// Frontend 展示在结果页的前端版本
const Frontend = "version1"

var Commit = "dev"
