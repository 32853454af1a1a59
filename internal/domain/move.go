package domain

// Offsets は各タイルの移動量（元の座標系での符号付き距離）
// Up/Left 方向は負、Right/Down 方向は正になる
type Offsets [Size][Size]int

// MoveResult はスワイプの結果
type MoveResult struct {
	Board      Board
	ScoreDelta int
	Offsets    Offsets
	Valid      bool
}

// ApplyMove は指定した方向にスワイプした結果を返す（spawnなし）
// 全方向を転置・反転で左スタックに帰着させ、行ごとに事前計算表を引く
// 何も動かない場合は元の盤面・スコア0・Valid=false を返す
func ApplyMove(dir Direction, b Board) MoveResult {
	work := toLeftFrame(dir, b)
	table := rowMoves()

	var (
		stacked Board
		offsets Offsets
		score   int
		moved   bool
	)
	for r := 0; r < Size; r++ {
		m := table[EncodeRow(work.cells[r])]
		stacked.cells[r] = DecodeRow(m.row)
		offsets[r] = m.offsetLine()
		score += int(m.score)
		moved = moved || m.moved()
	}

	if !moved {
		return MoveResult{Board: b}
	}
	return MoveResult{
		Board:      fromLeftFrame(dir, stacked),
		ScoreDelta: score,
		Offsets:    offsetsFromLeftFrame(dir, offsets),
		Valid:      true,
	}
}

// toLeftFrame は盤面を左スタックの座標系に変換する
func toLeftFrame(dir Direction, b Board) Board {
	switch dir {
	case Up:
		return b.transpose()
	case Right:
		return b.reverseRows()
	case Down:
		return b.transpose().reverseRows()
	default:
		return b
	}
}

// fromLeftFrame はtoLeftFrameの逆変換
func fromLeftFrame(dir Direction, b Board) Board {
	switch dir {
	case Up:
		return b.transpose()
	case Right:
		return b.reverseRows()
	case Down:
		return b.reverseRows().transpose()
	default:
		return b
	}
}

// offsetsFromLeftFrame は移動量を元の座標系に戻す
// 反転を挟む方向では移動の向きも逆になるので符号を反転する
func offsetsFromLeftFrame(dir Direction, o Offsets) Offsets {
	switch dir {
	case Up:
		return o.transpose()
	case Right:
		return o.reverseRows().negate()
	case Down:
		return o.reverseRows().negate().transpose()
	default:
		return o
	}
}

func (o Offsets) transpose() Offsets {
	var t Offsets
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			t[c][r] = o[r][c]
		}
	}
	return t
}

func (o Offsets) reverseRows() Offsets {
	var t Offsets
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			t[r][c] = o[r][Size-1-c]
		}
	}
	return t
}

func (o Offsets) negate() Offsets {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			o[r][c] = -o[r][c]
		}
	}
	return o
}

// stackLeft は1行を左に詰めてマージし、結果・スコア・各タイルの移動量を返す
// マージしたタイルは同じ手の中で再びマージしない
func stackLeft(line [Size]int) ([Size]int, int, [Size]int) {
	var (
		out       [Size]int
		offsets   [Size]int
		score     int
		k         = -1
		mergeable bool
	)
	for i, v := range line {
		if v == 0 {
			continue
		}
		if mergeable && out[k] == v {
			out[k] += v
			score += out[k]
			offsets[i] = k - i
			mergeable = false
			continue
		}
		k++
		out[k] = v
		offsets[i] = k - i
		mergeable = true
	}
	return out, score, offsets
}

// ApplyMoveEncoded は圧縮表現のままスワイプする（探索用、移動量は計算しない）
func ApplyMoveEncoded(dir Direction, s EncodedState) (EncodedState, int, bool) {
	table := rowMoves()
	out := s
	score := 0
	moved := false

	for i := 0; i < Size; i++ {
		var line uint32
		switch dir {
		case Up, Down:
			line = s.col(i)
		default:
			line = s.row(i)
		}
		reversed := dir == Right || dir == Down
		if reversed {
			line = reverseRowCode(line)
		}

		m := table[line]
		if !m.moved() {
			continue
		}
		moved = true
		score += int(m.score)

		result := m.row
		if reversed {
			result = reverseRowCode(result)
		}
		switch dir {
		case Up, Down:
			out = out.withCol(i, result)
		default:
			out = out.withRow(i, result)
		}
	}

	if !moved {
		return s, 0, false
	}
	return out, score, true
}

// IsTerminal は空きマスがなく、どの方向にも動かせないかどうかを返す
func IsTerminal(b Board) bool {
	if b.EmptyCount() > 0 {
		return false
	}
	for _, dir := range Directions {
		if ApplyMove(dir, b).Valid {
			return false
		}
	}
	return true
}

// IsGameOver は全方向にスワイプできない（ゲームオーバー）かどうかを返す
func (b Board) IsGameOver() bool {
	return IsTerminal(b)
}

// ValidDirections は盤面が変化する方向を列挙順で返す
func ValidDirections(b Board) []Direction {
	dirs := make([]Direction, 0, len(Directions))
	for _, dir := range Directions {
		if ApplyMove(dir, b).Valid {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
