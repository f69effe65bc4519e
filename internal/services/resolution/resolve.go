// Package resolution decides the outcome of a rock/paper/scissors round.
// Everything here is pure; callers own any state.
package resolution

import (
	"fmt"
	"strings"

	"github.com/mcoot/rps-matchmaker/internal/model"
)

// Outcome is the result of comparing two choices
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeFirstWins
	OutcomeSecondWins
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDraw:
		return "draw"
	case OutcomeFirstWins:
		return "first_wins"
	case OutcomeSecondWins:
		return "second_wins"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// beats maps each choice to the one it defeats
var beats = map[model.Choice]model.Choice{
	model.ChoiceRock:     model.ChoiceScissors,
	model.ChoiceScissors: model.ChoicePaper,
	model.ChoicePaper:    model.ChoiceRock,
}

// Beats returns the choice that c defeats
func Beats(c model.Choice) (model.Choice, error) {
	loser, ok := beats[c]
	if !ok {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidChoice, c)
	}
	return loser, nil
}

// ParseChoice normalizes raw client input into a Choice
func ParseChoice(raw string) (model.Choice, error) {
	c := model.Choice(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := beats[c]; !ok {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidChoice, raw)
	}
	return c, nil
}

// Resolve compares the first player's choice against the second's
func Resolve(first, second model.Choice) (Outcome, error) {
	loser, err := Beats(first)
	if err != nil {
		return 0, err
	}
	if _, err := Beats(second); err != nil {
		return 0, err
	}

	switch {
	case first == second:
		return OutcomeDraw, nil
	case loser == second:
		return OutcomeFirstWins, nil
	default:
		return OutcomeSecondWins, nil
	}
}

// Winner maps an outcome onto the game's winner field
func Winner(outcome Outcome, first, second model.PlayerID) model.Winner {
	switch outcome {
	case OutcomeFirstWins:
		return model.Winner(first)
	case OutcomeSecondWins:
		return model.Winner(second)
	default:
		return model.WinnerDraw
	}
}
