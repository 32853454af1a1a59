package domain

// Game は2048ゲームの状態を管理する
type Game struct {
	board     Board
	score     int
	moveCount int
	spawner   *Spawner
	history   *History
}

// NewGame は新しいゲームを開始する
func NewGame(spawner *Spawner) *Game {
	return NewGameWithHistory(spawner, DefaultHistoryCapacity)
}

// NewGameWithHistory は履歴の容量を指定してゲームを開始する
func NewGameWithHistory(spawner *Spawner, capacity int) *Game {
	g := &Game{
		board:   NewBoard(),
		spawner: spawner,
		history: NewHistory(capacity),
	}
	// 初期配置として2つのタイルを配置
	g.board, _ = spawner.SpawnTile(g.board)
	g.board, _ = spawner.SpawnTile(g.board)
	return g
}

// NewGameFromBoard は途中の盤面からゲームを再開する
func NewGameFromBoard(b Board, score, moveCount int, spawner *Spawner) *Game {
	return &Game{
		board:     b,
		score:     score,
		moveCount: moveCount,
		spawner:   spawner,
		history:   NewHistory(DefaultHistoryCapacity),
	}
}

// Board は現在の盤面を返す
func (g *Game) Board() Board {
	return g.board
}

// Score は現在のスコアを返す
func (g *Game) Score() int {
	return g.score
}

// MoveCount は有効だった手の数を返す
func (g *Game) MoveCount() int {
	return g.moveCount
}

// History は取り消し履歴を返す
func (g *Game) History() *History {
	return g.history
}

// IsGameOver はゲームオーバーかどうかを返す
func (g *Game) IsGameOver() bool {
	return IsTerminal(g.board)
}

// Won は勝利タイルに到達したかどうかを返す
func (g *Game) Won(victory int) bool {
	return g.board.MaxTile() >= victory
}

// Move は指定した方向にスワイプを実行する
// 盤面が変化した場合はスコアと手数を進めて履歴に積み、タイルを1つ出現させる
// 変化しない場合は何もせず Valid=false の結果を返す
func (g *Game) Move(dir Direction) (MoveResult, *Tile) {
	res := ApplyMove(dir, g.board)
	if !res.Valid {
		return res, nil
	}

	g.history.Push(Snapshot{Score: g.score, State: Encode(g.board)})
	g.score += res.ScoreDelta
	g.moveCount++

	var tile *Tile
	g.board, tile = g.spawner.SpawnTile(res.Board)
	return res, tile
}

// Undo は直前の手を取り消す（手数はそのまま）
func (g *Game) Undo() bool {
	s, ok := g.history.Pop()
	if !ok {
		return false
	}
	g.board = Decode(s.State)
	g.score = s.Score
	return true
}
