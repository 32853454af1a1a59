package domain

// DefaultHistoryCapacity は取り消し履歴の保持数
const DefaultHistoryCapacity = 20

// Snapshot は取り消し用に保存する盤面とスコア
type Snapshot struct {
	Score int
	State EncodedState
}

// History は容量付きの取り消し履歴（リングバッファ）
// 満杯のときは最も古いものから捨てる。書き込みは1つのGameからのみ行う
type History struct {
	entries []Snapshot
	start   int
	size    int
}

// NewHistory は指定容量の履歴を生成する
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &History{entries: make([]Snapshot, capacity)}
}

// Push は履歴に追加する
func (h *History) Push(s Snapshot) {
	idx := (h.start + h.size) % len(h.entries)
	h.entries[idx] = s
	if h.size < len(h.entries) {
		h.size++
		return
	}
	h.start = (h.start + 1) % len(h.entries)
}

// Pop は最新の履歴を取り出す
func (h *History) Pop() (Snapshot, bool) {
	if h.size == 0 {
		return Snapshot{}, false
	}
	h.size--
	idx := (h.start + h.size) % len(h.entries)
	return h.entries[idx], true
}

// Len は保持している履歴の数を返す
func (h *History) Len() int {
	return h.size
}

// Cap は履歴の容量を返す
func (h *History) Cap() int {
	return len(h.entries)
}

// Clear は履歴を空にする
func (h *History) Clear() {
	h.start, h.size = 0, 0
}
