package household

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const HouseholdKey contextKey = "household"

var ErrNoHousehold = errors.New("household not found")

// CurrentId retrieves the current household's ID from the context.
// Returns ErrNoHousehold if no household is present.
func CurrentId(ctx context.Context) (int, error) {
	h, ok := ctx.Value(HouseholdKey).(Household)
	if !ok {
		log.Trace("household not found in context")
		return 0, ErrNoHousehold
	}
	return h.Id, nil
}

func Current(ctx context.Context) (Household, error) {
	h, ok := ctx.Value(HouseholdKey).(Household)
	if !ok {
		log.Trace("household not found in context")
		return Household{}, ErrNoHousehold
	}
	return h, nil
}

func WithHousehold(ctx context.Context, h Household) context.Context {
	return context.WithValue(ctx, HouseholdKey, h)
}
