package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Priyanshut972/Weatherapp/internal/models"
	"github.com/Priyanshut972/Weatherapp/internal/observability"
)

// StaleLoadingAfter bounds how long a session may stay Loading. It is well
// above the upstream request timeout, so only a fetch whose completion was
// lost (for example by a restart) outlives it.
const StaleLoadingAfter = 30 * time.Second

var (
	ErrEmptyCity    = errors.New("city name is required")
	ErrNoSuggestion = errors.New("no suggested correction pending")
)

type Fetcher interface {
	FetchCurrentWeather(ctx context.Context, cityName string) (models.WeatherResult, error)
}

type Resolver interface {
	Suggester
	CorrectedNameFor(raw string) string
}

// Controller drives each session through Idle, Loading, Success and Failed.
// Fetches are tagged with a per-session sequence number and only the most
// recently issued one may change the state when it completes.
type Controller struct {
	resolver    Resolver
	fetcher     Fetcher
	store       Store
	defaultCity string
	staleAfter  time.Duration
	now         func() time.Time
}

func NewController(resolver Resolver, fetcher Fetcher, store Store, defaultCity string) *Controller {
	return &Controller{
		resolver:    resolver,
		fetcher:     fetcher,
		store:       store,
		defaultCity: defaultCity,
		staleAfter:  StaleLoadingAfter,
		now:         time.Now,
	}
}

// Start loads the default city into session id without touching CityInput.
func (c *Controller) Start(ctx context.Context, id string) (models.UIState, error) {
	return c.run(ctx, id, func(*models.UIState) (string, error) {
		return c.defaultCity, nil
	})
}

// Open returns the state of session id, starting it first if it does not
// exist yet.
func (c *Controller) Open(ctx context.Context, id string) (models.UIState, error) {
	st, ok, err := c.load(ctx, id)
	if err != nil {
		return models.UIState{}, err
	}
	if ok {
		return st, nil
	}
	return c.Start(ctx, id)
}

func (c *Controller) State(ctx context.Context, id string) (models.UIState, bool, error) {
	return c.load(ctx, id)
}

// load reads session id and moves a Loading state that has outlived
// staleAfter into Failed.
func (c *Controller) load(ctx context.Context, id string) (models.UIState, bool, error) {
	st, ok, err := c.store.Get(ctx, id)
	if err != nil || !ok {
		return st, ok, err
	}
	if _, stale := AbandonStaleFetch(st, c.now(), c.staleAfter); !stale {
		return st, true, nil
	}

	abandoned := false
	st, err = c.store.Update(ctx, id, func(st *models.UIState) error {
		*st, abandoned = AbandonStaleFetch(*st, c.now(), c.staleAfter)
		return nil
	})
	if err != nil {
		return st, true, err
	}
	if abandoned {
		slog.Warn("abandoned stale fetch", "session", id, "seq", st.FetchSeq)
	}
	return st, true, nil
}

// Submit corrects raw through the resolver, shows the corrected name in the
// input and fetches it.
func (c *Controller) Submit(ctx context.Context, id, raw string) (models.UIState, error) {
	if strings.TrimSpace(raw) == "" {
		st, _, err := c.store.Get(ctx, id)
		if err != nil {
			return st, err
		}
		return st, ErrEmptyCity
	}
	corrected := c.resolver.CorrectedNameFor(raw)
	return c.run(ctx, id, func(st *models.UIState) (string, error) {
		st.CityInput = corrected
		return corrected, nil
	})
}

// AcceptSuggestion retries with the pending suggested correction.
func (c *Controller) AcceptSuggestion(ctx context.Context, id string) (models.UIState, error) {
	return c.run(ctx, id, func(st *models.UIState) (string, error) {
		if st.SuggestedCorrection == "" {
			return "", ErrNoSuggestion
		}
		st.CityInput = st.SuggestedCorrection
		return st.SuggestedCorrection, nil
	})
}

// run applies prepare and enters Loading in one store update, performs the
// fetch, then completes it in a second update.
func (c *Controller) run(ctx context.Context, id string, prepare func(st *models.UIState) (string, error)) (models.UIState, error) {
	var (
		city string
		seq  uint64
	)
	st, err := c.store.Update(ctx, id, func(st *models.UIState) error {
		var err error
		if city, err = prepare(st); err != nil {
			return err
		}
		*st, seq = BeginFetch(*st, c.now())
		return nil
	})
	if err != nil {
		return st, err
	}

	result, fetchErr := c.fetcher.FetchCurrentWeather(ctx, city)
	if fetchErr != nil {
		slog.Info("weather lookup failed", "session", id, "city", city, "error", fetchErr)
	}

	applied := false
	st, err = c.store.Update(context.WithoutCancel(ctx), id, func(st *models.UIState) error {
		if fetchErr != nil {
			*st, applied = CompleteFailure(*st, seq, city, c.resolver)
		} else {
			*st, applied = CompleteSuccess(*st, seq, result)
		}
		return nil
	})
	if err != nil {
		return st, err
	}
	if !applied {
		observability.StaleCompletions.Inc()
		slog.Debug("discarded stale fetch completion", "session", id, "city", city, "seq", seq, "latest", st.FetchSeq)
	}
	return st, nil
}
