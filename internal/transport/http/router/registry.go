package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIModule 业务模块实现该接口即可被挂载
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

var (
	mu      sync.RWMutex
	apiMods []APIModule
)

func Register(mod APIModule) {
	mu.Lock()
	defer mu.Unlock()
	apiMods = append(apiMods, mod)
}

// MountAllAPI 在 /api/v1 上挂载所有已注册的模块
func MountAllAPI(api *gin.RouterGroup) {
	mu.RLock()
	mods := append([]APIModule(nil), apiMods...)
	mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(api)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
