package session

import (
	"fmt"
	"time"

	"github.com/Priyanshut972/Weatherapp/internal/models"
)

const NotFoundMessage = "City not found. Please check the spelling and try again."

// Suggester is the part of the city resolver the failure path needs.
type Suggester interface {
	SuggestionFor(raw string) (string, bool)
}

// BeginFetch moves st into Loading at now for a new fetch and returns the
// sequence number that fetch must complete with. The previous result stays
// visible.
func BeginFetch(st models.UIState, now time.Time) (models.UIState, uint64) {
	st.FetchSeq++
	st.Loading = true
	st.LoadingSince = now
	st.ErrorMessage = ""
	st.SuggestedCorrection = ""
	return st, st.FetchSeq
}

// CompleteSuccess applies a fetched result if seq is still the latest fetch.
func CompleteSuccess(st models.UIState, seq uint64, result models.WeatherResult) (models.UIState, bool) {
	if seq != st.FetchSeq {
		return st, false
	}
	st.Loading = false
	st.LoadingSince = time.Time{}
	st.Result = &result
	st.ErrorMessage = ""
	st.SuggestedCorrection = ""
	return st, true
}

// CompleteFailure records a failed fetch of failedCity if seq is still the
// latest fetch. A correction for failedCity is offered when one exists.
func CompleteFailure(st models.UIState, seq uint64, failedCity string, s Suggester) (models.UIState, bool) {
	if seq != st.FetchSeq {
		return st, false
	}
	st.Loading = false
	st.LoadingSince = time.Time{}
	st.Result = nil
	st.ErrorMessage, st.SuggestedCorrection = FailureMessage(s, failedCity)
	return st, true
}

// AbandonStaleFetch fails a Loading state whose fetch began more than maxAge
// before now, or whose start time is unknown. FetchSeq is left alone, so the
// abandoned fetch may still complete if it turns out to be alive.
func AbandonStaleFetch(st models.UIState, now time.Time, maxAge time.Duration) (models.UIState, bool) {
	if !st.Loading {
		return st, false
	}
	if !st.LoadingSince.IsZero() && now.Sub(st.LoadingSince) <= maxAge {
		return st, false
	}
	st.Loading = false
	st.LoadingSince = time.Time{}
	st.Result = nil
	st.ErrorMessage = NotFoundMessage
	st.SuggestedCorrection = ""
	return st, true
}

// FailureMessage returns the error text for a failed lookup of city and the
// correction to offer, if any.
func FailureMessage(s Suggester, city string) (message, suggestion string) {
	if suggestion, ok := s.SuggestionFor(city); ok {
		return fmt.Sprintf("Did you mean %s?", suggestion), suggestion
	}
	return NotFoundMessage, ""
}
