// Command scoreboard prints the current game and archived results from the
// calculator's database.
package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/pterm/pterm"

	"lostcities-calculator/internal/config"
	"lostcities-calculator/internal/database"
	"lostcities-calculator/internal/session"
	"lostcities-calculator/internal/shared"
)

func main() {
	cfg := config.Default()
	fset := flag.NewFlagSet("scoreboard", flag.ExitOnError)
	cfg.RegisterFlags(fset)
	history := fset.Bool("history", false, "also list archived games")
	fset.Parse(os.Args[1:])
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		pterm.Error.Printfln("Failed to open database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	s := session.New(db, nil)
	if err := pterm.DefaultTable.WithHasHeader().WithData(currentTable(s)).Render(); err != nil {
		log.Fatal(err)
	}
	at := s.Coordinate()
	pterm.Info.Printfln("Editing %s, %s (%s game)", s.Name(at.Player), at.Round, gameLength(s.LongGame()))

	if !*history {
		return
	}
	results, err := db.GetAll()
	if err != nil {
		pterm.Error.Printfln("Failed to read results: %v", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		pterm.Info.Println("No archived games.")
		return
	}
	pterm.DefaultSection.Println("Archived games")
	if err := pterm.DefaultTable.WithHasHeader().WithData(historyTable(results)).Render(); err != nil {
		log.Fatal(err)
	}
}

func gameLength(long bool) string {
	if long {
		return "long"
	}
	return "short"
}

func currentTable(s *session.Session) pterm.TableData {
	board := s.Game().Score(s.Suits())
	data := pterm.TableData{{"Player", "Round 1", "Round 2", "Round 3", "Total"}}
	for _, p := range shared.Players {
		ps := board[p.Index()]
		row := []string{s.Name(p)}
		for _, score := range ps.Rounds {
			row = append(row, strconv.Itoa(score))
		}
		row = append(row, pterm.Bold.Sprint(ps.Total))
		data = append(data, row)
	}
	return data
}

func historyTable(results []database.GameResult) pterm.TableData {
	data := pterm.TableData{{"Date", "Player 1", "Score", "Player 2", "Score", "Game"}}
	for _, r := range results {
		p1, p2 := strconv.Itoa(r.Player1Score), strconv.Itoa(r.Player2Score)
		switch {
		case r.Player1Score > r.Player2Score:
			p1 = pterm.LightGreen(p1)
		case r.Player2Score > r.Player1Score:
			p2 = pterm.LightGreen(p2)
		}
		data = append(data, []string{r.CreatedAt, r.Player1, p1, r.Player2, p2, gameLength(r.LongGame)})
	}
	return data
}
