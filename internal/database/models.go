package database

// GameResult is a finished game archived when the calculator is reset.
type GameResult struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"created_at"`
	Player1      string `json:"player1"`
	Player2      string `json:"player2"`
	Player1Round [3]int `json:"player1_rounds"`
	Player2Round [3]int `json:"player2_rounds"`
	Player1Score int    `json:"player1_score"`
	Player2Score int    `json:"player2_score"`
	LongGame     bool   `json:"long_game"`
}
