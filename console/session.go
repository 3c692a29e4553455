package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alfredoyang/gomoku/engine"
	"github.com/rs/zerolog/log"
)

var (
	errInputClosed = errors.New("input closed")
	errAIMove      = errors.New("ai made an invalid move")
)

type session struct {
	game  *engine.Game
	in    *bufio.Scanner
	out   io.Writer
	human engine.PlayerColor
	ai    engine.PlayerColor
}

func newSession(game *engine.Game, in io.Reader, out io.Writer) *session {
	return &session{
		game: game,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// run plays one game to completion. It returns errInputClosed when the
// input ends before the game does.
func (s *session) run() error {
	s.println("Welcome to Gomoku!")
	s.println("Do you want to move first? (y/n)")
	answer, err := s.readLine()
	if err != nil {
		return err
	}
	s.human, s.ai = engine.PlayerWhite, engine.PlayerBlack
	if strings.EqualFold(strings.TrimSpace(answer), "y") {
		s.human, s.ai = engine.PlayerBlack, engine.PlayerWhite
	}
	s.printf("You are %s (%s), AI is %s (%s)\n", s.human, s.human.Symbol(), s.ai, s.ai.Symbol())
	s.println("Enter moves as 'row col' (e.g., '7 7').")
	log.Debug().Stringer("human", s.human).Int("depth", s.game.Searcher().Depth()).Msg("session started")

	if s.game.CurrentPlayer() == s.ai {
		if err := s.aiTurn(); err != nil {
			return err
		}
		if s.finished() {
			return nil
		}
		s.game.SwitchPlayer()
	}

	for {
		s.print(s.game.Board().String())
		if s.game.CurrentPlayer() == s.human {
			s.printf("Your turn (%s). Enter row and column (0-%d):\n", s.human, engine.Size-1)
			line, err := s.readLine()
			if err != nil {
				return err
			}
			row, col, ok := parseCoords(line)
			if !ok {
				s.println("Invalid input. Please enter two numbers (row col).")
				continue
			}
			if err := s.game.MakeMove(row, col); err != nil {
				log.Debug().Err(err).Int("row", row).Int("col", col).Msg("rejected move")
				s.println("Invalid move")
				continue
			}
		} else if err := s.aiTurn(); err != nil {
			return err
		}

		if s.finished() {
			return nil
		}
		s.game.SwitchPlayer()
	}
}

func (s *session) aiTurn() error {
	s.printf("AI (%s) is thinking...\n", s.ai)
	result := s.game.Analyze()
	move := result.Move
	if !result.HasMove {
		move = engine.CenterMove()
	}
	s.printf("AI moves to %s\n", move)
	if err := s.game.MakeMove(move.Row, move.Col); err != nil {
		return fmt.Errorf("%w: %s: %w", errAIMove, move, err)
	}
	log.Debug().
		Stringer("move", move).
		Int("score", result.Score).
		Object("stats", result.Stats).
		Msg("ai moved")
	return nil
}

// finished prints the final board and the outcome once the game is over.
func (s *session) finished() bool {
	if winner, ok := s.game.CheckWinner(); ok {
		s.print(s.game.Board().String())
		if winner == s.human {
			s.printf("You win (%s)!\n", s.human)
		} else {
			s.printf("AI wins (%s)!\n", s.ai)
		}
		return true
	}
	if s.game.IsBoardFull() {
		s.print(s.game.Board().String())
		s.println("Game is a draw!")
		return true
	}
	return false
}

func (s *session) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return s.in.Text(), nil
}

// parseCoords keeps the fields that parse as unsigned integers and accepts
// the line only when exactly two remain.
func parseCoords(line string) (int, int, bool) {
	coords := make([]int, 0, 2)
	for _, field := range strings.Fields(line) {
		value, err := strconv.ParseUint(field, 10, 31)
		if err != nil {
			continue
		}
		coords = append(coords, int(value))
	}
	if len(coords) != 2 {
		return 0, 0, false
	}
	return coords[0], coords[1], true
}

func (s *session) print(text string) {
	_, _ = io.WriteString(s.out, text)
}

func (s *session) println(text string) {
	_, _ = fmt.Fprintln(s.out, text)
}

func (s *session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
