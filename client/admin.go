package client

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Admin 调试与监控接口，只通过快照读取世界状态
type Admin struct {
	world    *World
	decider  *Decider
	metrics  *Metrics
	localID  int
	session  uuid.UUID
	registry *prometheus.Registry
}

// NewAdmin 创建调试接口并把指标注册到独立的 Prometheus registry
func NewAdmin(world *World, decider *Decider, metrics *Metrics, localID int, session uuid.UUID) (*Admin, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics); err != nil {
		return nil, err
	}
	return &Admin{
		world:    world,
		decider:  decider,
		metrics:  metrics,
		localID:  localID,
		session:  session,
		registry: reg,
	}, nil
}

// Handler 路由：/snapshot /metrics /admin/config /healthz
func (a *Admin) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", a.HandleSnapshot)
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/admin/config", a.HandleAdminConfig)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// HandleSnapshot 输出当前快照（地图以行文本输出）
// GET /snapshot
func (a *Admin) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := a.world.Snapshot(a.localID)
	payload := map[string]any{
		"session":  a.session.String(),
		"snapshot": snap,
		"grid":     snap.Grid.Rows(),
		"counters": a.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// HandleAdminConfig 读取或热更新决策参数
// GET  /admin/config  返回当前参数
// POST /admin/config  以 JSON 载荷更新部分字段
func (a *Admin) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	type cfg struct {
		CommandRate  *float64 `json:"commandRate,omitempty"`
		CommandBurst *int     `json:"commandBurst,omitempty"`
		Paused       *bool    `json:"paused,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(a.decider.Settings())
		return
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if (body.CommandRate != nil && *body.CommandRate <= 0) || (body.CommandBurst != nil && *body.CommandBurst < 1) {
			http.Error(w, "commandRate must be > 0 and commandBurst >= 1", http.StatusBadRequest)
			return
		}
		if body.CommandRate != nil {
			a.decider.SetCommandRate(*body.CommandRate)
		}
		if body.CommandBurst != nil {
			a.decider.SetCommandBurst(*body.CommandBurst)
		}
		if body.Paused != nil {
			a.decider.SetPaused(*body.Paused)
		}
		cur := a.decider.Settings()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		Log.Infow("decision settings updated", "command_rate", cur.CommandRate, "command_burst", cur.CommandBurst, "paused", cur.Paused)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}
