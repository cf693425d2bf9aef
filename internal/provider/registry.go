package provider

import (
	"fmt"
	"strings"
)

// Registry 是剧集来源的只读注册表（按 name 索引）
type Registry struct {
	byName map[string]EpisodeSource
}

func NewRegistry(sources ...EpisodeSource) (Registry, error) {
	byName := make(map[string]EpisodeSource, len(sources))
	for _, s := range sources {
		if s == nil {
			return Registry{}, fmt.Errorf("provider 不能为空")
		}
		name := normalizeName(s.Name())
		if name == "" {
			return Registry{}, fmt.Errorf("provider.Name 不能为空")
		}
		if _, ok := byName[name]; ok {
			return Registry{}, fmt.Errorf("重复的 provider：%q", name)
		}
		byName[name] = s
	}
	return Registry{byName: byName}, nil
}

func (r Registry) Get(name string) (EpisodeSource, bool) {
	if r.byName == nil {
		return nil, false
	}
	s, ok := r.byName[normalizeName(name)]
	return s, ok
}

// Chain 按给定顺序取出回退链，未知或重复的名字报错
func (r Registry) Chain(order []string) ([]EpisodeSource, error) {
	if len(order) == 0 {
		return nil, fmt.Errorf("回退链不能为空")
	}
	seen := make(map[string]struct{}, len(order))
	chain := make([]EpisodeSource, 0, len(order))
	for _, name := range order {
		s, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("未知的 provider：%q", name)
		}
		key := normalizeName(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("回退链中重复的 provider：%q", name)
		}
		seen[key] = struct{}{}
		chain = append(chain, s)
	}
	return chain, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
