// 包 render：基于 pongo2 的页面渲染；模板内嵌于二进制，结果页与错误页各一
package render

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"ip-frontend/internal/geo"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.html
var embedded embed.FS

const (
	indexTemplate = "index.html"
	errorTemplate = "error.html"
)

// Page：结果页数据
type Page struct {
	Result          geo.Result
	Hostname        string
	FrontendVersion string
}

func (p Page) context() pongo2.Context {
	return pongo2.Context{
		"continent_name":        p.Result.ContinentName,
		"continent_code":        p.Result.ContinentCode,
		"country_name":          p.Result.CountryName,
		"isp":                   p.Result.ISP,
		"cached":                p.Result.Cached,
		"host":                  p.Hostname,
		"apiServer":             p.Result.APIServer,
		"apiServerVersion":      p.Result.APIServerVersion,
		"frontendServerVersion": p.FrontendVersion,
		"hostname":              p.Hostname,
	}
}

// Renderer：预编译的模板集合，创建后只读，可并发使用
type Renderer struct {
	index *pongo2.Template
	fail  *pongo2.Template
}

// New：使用内嵌模板构建渲染器
func New() (*Renderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("render: templates fs: %w", err)
	}
	return NewFromFS(sub)
}

// NewFromFS：从给定文件系统加载 index.html 与 error.html（用于替换页面样式）
func NewFromFS(fsys fs.FS) (*Renderer, error) {
	if fsys == nil {
		return nil, errors.New("render: nil template fs")
	}
	set := pongo2.NewSet("frontend", pongo2.NewFSLoader(fsys))
	index, err := set.FromFile(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("render: load %s: %w", indexTemplate, err)
	}
	fail, err := set.FromFile(errorTemplate)
	if err != nil {
		return nil, fmt.Errorf("render: load %s: %w", errorTemplate, err)
	}
	return &Renderer{index: index, fail: fail}, nil
}

// Index：渲染结果页；后端字段原样输出，仅经自动转义；出错时不写出任何内容
func (r *Renderer) Index(w io.Writer, p Page) error {
	if err := r.index.ExecuteWriter(p.context(), w); err != nil {
		return fmt.Errorf("render: execute %s: %w", indexTemplate, err)
	}
	return nil
}

// Error：渲染错误页，message 经自动转义输出
func (r *Renderer) Error(w io.Writer, message string) error {
	if err := r.fail.ExecuteWriter(pongo2.Context{"error_message": message}, w); err != nil {
		return fmt.Errorf("render: execute %s: %w", errorTemplate, err)
	}
	return nil
}
