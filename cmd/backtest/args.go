package main

import (
	"strings"
	"time"

	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

const dateLayout = "2006-01-02"

// Args are the positional arguments shared by run and compare.
type Args struct {
	Strategies []string
	StartDate  time.Time
	EndDate    time.Time
}

// ParseArgs parses <strategy[,strategy...]> <start> <end>. Dates must be
// YYYY-MM-DD and start must be before end.
func ParseArgs(args []string) (Args, error) {
	if len(args) != 3 {
		return Args{}, errors.Newf(errors.ErrCodeMissingArgument,
			"expected <strategy> <start-date> <end-date>, got %d arguments", len(args))
	}

	var names []string

	for _, name := range strings.Split(args[0], ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return Args{}, errors.New(errors.ErrCodeInvalidArgument, "strategy name must not be empty")
	}

	start, err := parseDate("start date", args[1])
	if err != nil {
		return Args{}, err
	}

	end, err := parseDate("end date", args[2])
	if err != nil {
		return Args{}, err
	}

	if !start.Before(end) {
		return Args{}, errors.Newf(errors.ErrCodeInvalidDateRange,
			"start date %s must be before end date %s", args[1], args[2])
	}

	return Args{Strategies: names, StartDate: start, EndDate: end}, nil
}

func parseDate(name string, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidArgument, err,
			"%s %q is not a YYYY-MM-DD date", name, value)
	}

	return t, nil
}

// ParsePeriod parses the optional <start> <end> of prepare. Without
// arguments the period is unbounded.
func ParsePeriod(args []string) (time.Time, time.Time, error) {
	switch len(args) {
	case 0:
		return time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), nil
	case 2:
		parsed, err := ParseArgs(append([]string{"prepare"}, args...))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		return parsed.StartDate, parsed.EndDate, nil
	default:
		return time.Time{}, time.Time{}, errors.Newf(errors.ErrCodeMissingArgument,
			"expected no arguments or <start-date> <end-date>, got %d arguments", len(args))
	}
}
