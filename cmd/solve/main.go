// Package main is the entry point for the room-assignment solver CLI. It
// reads one problem document from stdin (or a file named by its first
// argument), runs the full solve pipeline, and writes the result document
// to stdout.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tolga/roomopt/internal/config"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/solve"
)

func main() {
	os.Exit(run())
}

func run() int {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	cfg := config.Load()

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	input, err := readInput()
	if err != nil {
		log.Error().Err(err).Msg("failed to read input")
		return 2
	}

	p, err := model.ParseProblem(input)
	if err != nil {
		log.Error().Err(err).Msg("invalid problem document")
		return 2
	}

	res, solveErr := solve.Solve(context.Background(), &p, cfg, log.Logger)
	if res != nil {
		if err := writeOutput(res); err != nil {
			log.Error().Err(err).Msg("failed to write output")
			return 2
		}
	}
	if solveErr == nil {
		return 0
	}

	var se *solve.Error
	if !asSolveError(solveErr, &se) {
		log.Error().Err(solveErr).Msg("solve failed")
		return 2
	}
	// NewReservationInfeasible isn't one of spec §6's exit codes: the
	// existing schedule is still valid and already written to stdout with
	// NewReservationInfeasible=true and an explanatory Message, so this is
	// a reported outcome, not a solve failure.
	if se.Kind == solve.KindNewReservationInfeasible {
		log.Warn().Err(se.Err).Msg("new reservation could not be placed")
		return 0
	}
	log.Error().Err(se.Err).Msg("solve failed")
	switch se.Kind {
	case solve.KindInvalidInput:
		return 2
	case solve.KindProvenInfeasible:
		return 3
	case solve.KindSolverTimeout:
		return 4
	case solve.KindMissingInitialAssignment:
		return 5
	default:
		return 2
	}
}

func asSolveError(err error, target **solve.Error) bool {
	se, ok := err.(*solve.Error)
	if !ok {
		return false
	}
	*target = se
	return true
}

func readInput() ([]byte, error) {
	if len(os.Args) > 1 {
		return os.ReadFile(os.Args[1])
	}
	return io.ReadAll(os.Stdin)
}

func writeOutput(res *model.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
