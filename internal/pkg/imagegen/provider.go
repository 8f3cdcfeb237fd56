package imagegen

import (
	"context"
)

// Request 统一的图片生成请求
type Request struct {
	UserID int64
	Prompt string
	Style  string
	Width  int
	Height int
	Count  int
}

// Result 生成结果。下载或转存失败的图片会被丢弃，数量记入 Failed
type Result struct {
	URLs   []string
	Failed int
}

// Uploader 图片转存接口，由 oss.Client 实现。
// 转存走带重试的上传，单次网络抖动不应该把一张已生成的图片算作失败
type Uploader interface {
	UploadImageWithRetry(userID int64, seq int, data []byte, ext string) (string, error)
}

// Provider 图片生成服务商
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *Request) (*Result, error)
}

// Registry 按名称查找服务商，未知名称回退到默认服务商
type Registry struct {
	providers   map[string]Provider
	defaultName string
}

func NewRegistry(defaultName string) *Registry {
	return &Registry{
		providers:   make(map[string]Provider),
		defaultName: defaultName,
	}
}

func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get 按名称获取服务商，名称为空或未注册时返回默认服务商
func (r *Registry) Get(name string) Provider {
	if p, ok := r.providers[name]; ok {
		return p
	}
	return r.providers[r.defaultName]
}

// Names 已注册的服务商名称
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
