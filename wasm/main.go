//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/alfredoyang/gomoku/engine"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: consoleWriter{}, NoColor: true})

	js.Global().Set("gomoku", js.ValueOf(map[string]any{
		"boardSize": js.FuncOf(func(js.Value, []js.Value) any {
			return engine.Size
		}),
		"newGame": js.FuncOf(func(js.Value, []js.Value) any {
			return newGameObject(engine.NewGame())
		}),
	}))
	log.Info().Msg("gomoku ready")
	select {}
}

// newGameObject exposes game to JavaScript. Cells and players use 0/1/2.
func newGameObject(game *engine.Game) js.Value {
	return js.ValueOf(map[string]any{
		"board": js.FuncOf(func(js.Value, []js.Value) any {
			flat := game.FlatBoard()
			array := js.Global().Get("Uint8Array").New(len(flat))
			js.CopyBytesToJS(array, flat)
			return array
		}),
		"currentPlayer": js.FuncOf(func(js.Value, []js.Value) any {
			return int(engine.EncodePlayer(game.CurrentPlayer()))
		}),
		"makeMove": js.FuncOf(func(_ js.Value, args []js.Value) any {
			return makeMove(game, args)
		}),
		"aiMove": js.FuncOf(func(js.Value, []js.Value) any {
			move := game.AIMove()
			return []any{move.Row, move.Col}
		}),
		"checkWinner": js.FuncOf(func(js.Value, []js.Value) any {
			winner, ok := game.CheckWinner()
			return int(engine.EncodeWinner(winner, ok))
		}),
		"isBoardFull": js.FuncOf(func(js.Value, []js.Value) any {
			return game.IsBoardFull()
		}),
		"switchPlayer": js.FuncOf(func(js.Value, []js.Value) any {
			game.SwitchPlayer()
			return nil
		}),
	})
}

// makeMove reports false for anything other than two numeric coordinates.
func makeMove(game *engine.Game, args []js.Value) bool {
	coords, ok := intArgs(args, 2)
	if !ok {
		log.Debug().Int("args", len(args)).Msg("makeMove expects two numbers")
		return false
	}
	if err := game.MakeMove(coords[0], coords[1]); err != nil {
		log.Debug().Err(err).Msg("move rejected")
		return false
	}
	return true
}

func intArgs(args []js.Value, n int) ([]int, bool) {
	if len(args) != n {
		return nil, false
	}
	values := make([]int, n)
	for i, arg := range args {
		if arg.Type() != js.TypeNumber {
			return nil, false
		}
		values[i] = arg.Int()
	}
	return values, true
}

// consoleWriter forwards log lines to the browser console.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", string(p))
	return len(p), nil
}
