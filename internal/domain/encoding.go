package domain

import (
	"math/bits"
)

// 盤面の圧縮表現
// 各タイルは5ビットの指数で表現（0=空, 1=2, 2=4, ..., 31=2^31）
// 32ビットワードに6タイルずつ行優先で詰め、16タイルを3ワードに収める
const (
	encodingBits  = 5
	encodingMask  = 1<<encodingBits - 1
	tilesPerWord  = 32 / encodingBits
	encodedWords  = (Size*Size + tilesPerWord - 1) / tilesPerWord
	rowBits       = encodingBits * Size
	rowTableSize  = 1 << rowBits
	spawnTileFour = Size * Size
)

// EncodedState は盤面を固定長のバイナリ形式で表現したもの
// 探索ノードや履歴に大量の盤面を保持するために使う
type EncodedState [encodedWords]uint32

// exponent はタイル値の指数を返す（空は0、5ビットで折り返す）
func exponent(value int) uint32 {
	if value <= 0 {
		return 0
	}
	return uint32(bits.TrailingZeros(uint(value))) & encodingMask
}

// tileValue は指数からタイル値を返す
func tileValue(exp uint32) int {
	if exp == 0 {
		return 0
	}
	return 1 << exp
}

// Encode はBoardをEncodedStateに変換する
func Encode(b Board) EncodedState {
	var s EncodedState
	for i := 0; i < Size*Size; i++ {
		exp := exponent(b.cells[i/Size][i%Size])
		s[i/tilesPerWord] |= exp << (encodingBits * (i % tilesPerWord))
	}
	return s
}

// Decode はEncodedStateをBoardに戻す
func Decode(s EncodedState) Board {
	var b Board
	for i := 0; i < Size*Size; i++ {
		exp := (s[i/tilesPerWord] >> (encodingBits * (i % tilesPerWord))) & encodingMask
		b.cells[i/Size][i%Size] = tileValue(exp)
	}
	return b
}

// tileExp はEncodedStateから行優先インデックスiの指数を取り出す
func (s EncodedState) tileExp(i int) uint32 {
	return (s[i/tilesPerWord] >> (encodingBits * (i % tilesPerWord))) & encodingMask
}

// withTileExp はインデックスiに指数を設定したEncodedStateを返す
func (s EncodedState) withTileExp(i int, exp uint32) EncodedState {
	shift := encodingBits * (i % tilesPerWord)
	w := i / tilesPerWord
	s[w] = (s[w] &^ (encodingMask << shift)) | (exp&encodingMask)<<shift
	return s
}

// row は指定行を20ビットの行コードとして取り出す
func (s EncodedState) row(r int) uint32 {
	var code uint32
	for c := 0; c < Size; c++ {
		code |= s.tileExp(r*Size+c) << (encodingBits * c)
	}
	return code
}

// withRow は指定行を行コードで置き換えたEncodedStateを返す
func (s EncodedState) withRow(r int, code uint32) EncodedState {
	for c := 0; c < Size; c++ {
		s = s.withTileExp(r*Size+c, (code>>(encodingBits*c))&encodingMask)
	}
	return s
}

// col は指定列を上から順に行コードとして取り出す
func (s EncodedState) col(c int) uint32 {
	var code uint32
	for r := 0; r < Size; r++ {
		code |= s.tileExp(r*Size+c) << (encodingBits * r)
	}
	return code
}

// withCol は指定列を行コードで置き換えたEncodedStateを返す
func (s EncodedState) withCol(c int, code uint32) EncodedState {
	for r := 0; r < Size; r++ {
		s = s.withTileExp(r*Size+c, (code>>(encodingBits*r))&encodingMask)
	}
	return s
}

// EmptyCount は空きマス数を返す
func (s EncodedState) EmptyCount() int {
	n := 0
	for i := 0; i < Size*Size; i++ {
		if s.tileExp(i) == 0 {
			n++
		}
	}
	return n
}

// EncodeRow は1行を20ビットの行コードに変換する
func EncodeRow(line [Size]int) uint32 {
	var code uint32
	for i, v := range line {
		code |= exponent(v) << (encodingBits * i)
	}
	return code
}

// DecodeRow は行コードを1行に戻す
func DecodeRow(code uint32) [Size]int {
	var line [Size]int
	for i := 0; i < Size; i++ {
		line[i] = tileValue((code >> (encodingBits * i)) & encodingMask)
	}
	return line
}

// reverseRowCode は行コードを左右反転する
func reverseRowCode(code uint32) uint32 {
	var out uint32
	for i := 0; i < Size; i++ {
		exp := (code >> (encodingBits * i)) & encodingMask
		out |= exp << (encodingBits * (Size - 1 - i))
	}
	return out
}

// Tile は出現したタイルの位置と値
type Tile struct {
	Row   int `json:"row" yaml:"row"`
	Col   int `json:"col" yaml:"col"`
	Value int `json:"value" yaml:"value"`
}

// EncodeTile は出現タイルを整数1つに詰める
// 位置は row*Size+col、値が4なら Size*Size を加える
func EncodeTile(t Tile) int {
	code := t.Row*Size + t.Col
	if t.Value == 4 {
		code += spawnTileFour
	}
	return code
}

// DecodeTile はEncodeTileの逆変換
func DecodeTile(code int) Tile {
	value := 2
	if code >= spawnTileFour {
		value = 4
		code -= spawnTileFour
	}
	return Tile{Row: code / Size, Col: code % Size, Value: value}
}
