package client

import "sync"

// WorldStatus 世界状态块中的全局信息
type WorldStatus struct {
	Iteration     int    `json:"iteration"`
	EndTime       int    `json:"endTime"`
	MaxUpdateTime string `json:"maxUpdateTime"`
	MaxPlayers    int    `json:"maxPlayers"`
}

// World 本地世界快照：状态、玩家表与地图由同一把互斥锁保护。
// 解码器在锁外完成解析，只在应用一个完整块时持锁；决策循环只在复制快照时持锁。
type World struct {
	mu sync.Mutex

	capacity int
	status   WorldStatus
	players  map[int]*PlayerRecord
	grid     *Grid

	// 每类块已应用的次数，用于就绪判断与快照对比
	statusSeq uint64
	playerSeq uint64
	mapSeq    uint64
}

// NewWorld 创建空世界，capacity 为玩家槽位上限
func NewWorld(capacity int) *World {
	if capacity <= 0 {
		capacity = DefaultPlayerCapacity
	}
	return &World{
		capacity: capacity,
		players:  make(map[int]*PlayerRecord),
	}
}

// Capacity 玩家槽位上限
func (w *World) Capacity() int { return w.capacity }

// ApplyStatus 应用一个状态块，只覆盖块中出现的字段
func (w *World) ApplyStatus(u StatusUpdate) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if u.Iteration != nil {
		w.status.Iteration = *u.Iteration
	}
	if u.EndTime != nil {
		w.status.EndTime = *u.EndTime
	}
	if u.MaxUpdateTime != nil {
		w.status.MaxUpdateTime = *u.MaxUpdateTime
	}
	if u.MaxPlayers != nil {
		w.status.MaxPlayers = *u.MaxPlayers
	}
	w.statusSeq++
}

// ApplyPlayers 应用一个玩家块：逐字段稀疏更新，首次出现的编号创建新槽位
func (w *World) ApplyPlayers(u PlayersUpdate) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, pu := range u.Players {
		if pu.ID < 0 || pu.ID >= w.capacity {
			continue
		}
		rec, ok := w.players[pu.ID]
		if !ok {
			rec = &PlayerRecord{ID: pu.ID}
			w.players[pu.ID] = rec
		}
		for _, f := range pu.Fields {
			rec.set(f.Key, f.Value)
		}
	}
	w.playerSeq++
}

// ApplyMap 整体替换地图
func (w *World) ApplyMap(u MapUpdate) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.grid = u.Grid
	w.mapSeq++
}

// Ready 至少收到过一个完整的玩家块和一个完整的地图块
func (w *World) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.playerSeq > 0 && w.mapSeq > 0
}

// Snapshot 决策循环读取的只读视图
type Snapshot struct {
	Status   WorldStatus          `json:"status"`
	LocalID  int                  `json:"localId"`
	Local    PlayerRecord         `json:"local"`
	HasLocal bool                 `json:"hasLocal"`
	Players  map[int]PlayerRecord `json:"players"`
	Grid     *Grid                `json:"-"`

	StatusSeq uint64 `json:"statusSeq"`
	PlayerSeq uint64 `json:"playerSeq"`
	MapSeq    uint64 `json:"mapSeq"`
}

// Player 按编号取玩家，未出现过的编号返回 false
func (s Snapshot) Player(id int) (PlayerRecord, bool) {
	p, ok := s.Players[id]
	return p, ok
}

// Snapshot 在一次持锁中复制状态、全部玩家和地图引用（地图构造后不可变，直接共享）
func (w *World) Snapshot(localID int) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		Status:    w.status,
		LocalID:   localID,
		Players:   make(map[int]PlayerRecord, len(w.players)),
		Grid:      w.grid,
		StatusSeq: w.statusSeq,
		PlayerSeq: w.playerSeq,
		MapSeq:    w.mapSeq,
	}
	for id, p := range w.players {
		snap.Players[id] = *p
	}
	if p, ok := w.players[localID]; ok {
		snap.Local = *p
		snap.HasLocal = true
	}
	return snap
}
