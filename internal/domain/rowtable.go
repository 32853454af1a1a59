package domain

import "sync"

// rowMove は1行を左にスタックした結果を事前計算したもの
type rowMove struct {
	row     uint32 // 結果の行コード
	score   uint32 // マージで得たスコア
	offsets uint16 // 各タイルの移動量（左向き、2ビットずつ）
}

var (
	rowTableOnce sync.Once
	rowTable     []rowMove
)

// rowMoves は全ての行コードに対する移動結果の表を返す
// 初回呼び出し時に 2^20 通りを計算する
func rowMoves() []rowMove {
	rowTableOnce.Do(func() {
		rowTable = make([]rowMove, rowTableSize)
		for code := uint32(0); code < rowTableSize; code++ {
			line, score, offsets := stackLeft(DecodeRow(code))
			var packed uint16
			for i, o := range offsets {
				packed |= uint16(-o) << (2 * i)
			}
			rowTable[code] = rowMove{
				row:     EncodeRow(line),
				score:   uint32(score),
				offsets: packed,
			}
		}
	})
	return rowTable
}

// moved は1つでもタイルが動いたかどうかを返す
func (m rowMove) moved() bool {
	return m.offsets != 0
}

// offsetLine は左向きの移動量を符号付きで展開する
func (m rowMove) offsetLine() [Size]int {
	var line [Size]int
	for i := 0; i < Size; i++ {
		line[i] = -int((m.offsets >> (2 * i)) & 0x3)
	}
	return line
}
