package domain

import (
	"fmt"
	"strings"
)

// Size は盤面の一辺の長さ
const Size = 4

// Direction はスワイプの方向を表す
// 宣言順（Up, Left, Right, Down）は探索の列挙順・同点時の優先順でもある
type Direction int

const (
	Up Direction = iota
	Left
	Right
	Down
)

// NoDirection は方向がないことを表す（探索の根ノードなど）
const NoDirection Direction = -1

// Directions は全方向を固定の列挙順で並べたもの
var Directions = [4]Direction{Up, Left, Right, Down}

// String は方向名を返す
func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Down:
		return "Down"
	default:
		return "None"
	}
}

// ParseDirection は文字列から方向を解釈する（w/a/s/d も受け付ける）
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "u", "up":
		return Up, true
	case "a", "l", "left":
		return Left, true
	case "d", "r", "right":
		return Right, true
	case "s", "down":
		return Down, true
	default:
		return NoDirection, false
	}
}

// Board は4x4の2048ゲーム盤面を表す（immutable）
type Board struct {
	cells [Size][Size]int
}

// NewBoard は空のBoardを生成する
func NewBoard() Board {
	return Board{}
}

// NewBoardFromCells はセルの値を指定してBoardを生成する
func NewBoardFromCells(cells [Size][Size]int) Board {
	return Board{cells: cells}
}

// Cells はセルの値をコピーして返す
func (b Board) Cells() [Size][Size]int {
	return b.cells
}

// Get は指定した位置のセル値を取得する
func (b Board) Get(row, col int) int {
	return b.cells[row][col]
}

// Set は指定した位置に値を設定した新しいBoardを返す
func (b Board) Set(row, col, value int) Board {
	b.cells[row][col] = value
	return b
}

// EmptyCells は空のセルの座標一覧を行優先で返す
func (b Board) EmptyCells() [][2]int {
	empty := make([][2]int, 0, Size*Size)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.cells[r][c] == 0 {
				empty = append(empty, [2]int{r, c})
			}
		}
	}
	return empty
}

// EmptyCount は空のセル数を返す
func (b Board) EmptyCount() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.cells[r][c] == 0 {
				n++
			}
		}
	}
	return n
}

// Sum は全タイルの合計値を返す
func (b Board) Sum() int {
	sum := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			sum += b.cells[r][c]
		}
	}
	return sum
}

// MaxTile は最大タイルの値を返す
func (b Board) MaxTile() int {
	maxVal := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.cells[r][c] > maxVal {
				maxVal = b.cells[r][c]
			}
		}
	}
	return maxVal
}

// Equal は2つのBoardが等しいかどうかを返す
func (b Board) Equal(other Board) bool {
	return b.cells == other.cells
}

// transpose は行と列を入れ替えた盤面を返す
func (b Board) transpose() Board {
	var t Board
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			t.cells[c][r] = b.cells[r][c]
		}
	}
	return t
}

// reverseRows は各行を左右反転した盤面を返す
func (b Board) reverseRows() Board {
	var t Board
	for r := 0; r < Size; r++ {
		t.cells[r] = reverseLine(b.cells[r])
	}
	return t
}

// reverseLine は配列を反転する
func reverseLine(line [Size]int) [Size]int {
	var out [Size]int
	for i := 0; i < Size; i++ {
		out[i] = line[Size-1-i]
	}
	return out
}

// String はBoardをASCIIアートとして表示する
func (b Board) String() string {
	line := "+" + strings.Repeat("------+", Size)
	var sb strings.Builder
	sb.WriteString(line + "\n")
	for r := 0; r < Size; r++ {
		sb.WriteString("|")
		for c := 0; c < Size; c++ {
			if b.cells[r][c] == 0 {
				sb.WriteString("      |")
			} else {
				sb.WriteString(fmt.Sprintf("%5d |", b.cells[r][c]))
			}
		}
		sb.WriteString("\n" + line + "\n")
	}
	return sb.String()
}
