package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
)

const seatLetters = "ABCDEF"

// diverMark is the seat letter, lower-cased once the diver heads back up.
func diverMark(p engine.PlayerView) string {
	mark := string(seatLetters[p.ID])
	if p.Direction == engine.Backward.String() {
		mark = strings.ToLower(mark)
	}
	return mark
}

// renderState writes the two-line board: divers above, treasure below.
//
//	[   cAb]      D             E
//	 ‾‾‾‾‾‾ 1 1 - 1 ...   ||  Current O2: 21
func renderState(w io.Writer, state *engine.GameState, episode int) {
	var top, bot strings.Builder

	inSub := 0
	for _, p := range state.Players {
		if p.Position == engine.Submarine {
			inSub++
		}
	}

	top.WriteString("[")
	top.WriteString(strings.Repeat(" ", engine.MaxPlayers-inSub))
	for i := len(state.TurnOrder) - 1; i >= 0; i-- {
		p := state.Players[state.TurnOrder[i]]
		if p.Position == engine.Submarine {
			top.WriteString(diverMark(p))
		}
	}
	top.WriteString("]")
	bot.WriteString(" ‾‾‾‾‾‾ ")

	at := make(map[int]engine.PlayerView, len(state.Players))
	for _, p := range state.Players {
		if p.Position > 0 {
			at[p.Position] = p
		}
	}

	for _, tile := range state.Path {
		if p, ok := at[tile.Position]; ok {
			top.WriteString(diverMark(p) + " ")
		} else {
			top.WriteString("  ")
		}
		if tile.Removed {
			bot.WriteString("- ")
		} else {
			fmt.Fprintf(&bot, "%d ", tile.Dots)
		}
	}

	if state.GameOver {
		top.WriteString("  ||  Episode over")
	} else {
		fmt.Fprintf(&top, "  ||  Player %c's turn", seatLetters[state.CurrentPlayer])
	}
	if episode > 0 {
		fmt.Fprintf(&top, " Episode %05d", episode)
	}
	top.WriteString(".\n")
	fmt.Fprintf(&bot, "  ||  Current O2: %d\n\n", state.Oxygen)

	io.WriteString(w, top.String())
	io.WriteString(w, bot.String())

	if state.GameOver {
		renderScores(w, state)
	}
}

// renderScores prints the final scores, one column per seat.
func renderScores(w io.Writer, state *engine.GameState) {
	var top, bot strings.Builder
	top.WriteString("Scores: ")
	bot.WriteString("        ")
	for _, p := range state.Players {
		fmt.Fprintf(&top, "Player %c - ", seatLetters[p.ID])
		fmt.Fprintf(&bot, " %02d pts  - ", p.Score)
	}
	fmt.Fprintf(w, "%s\n%s\n\n", top.String(), bot.String())
}
