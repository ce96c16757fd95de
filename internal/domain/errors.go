package domain

import "errors"

var (
	// ErrUnknownScenario is returned when a scenario id has no registered
	// fixture. Fatal to the requested operation only.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrFixtureUnavailable is returned when a reasoning call cannot resolve
	// expected fixture data and no fallback exists.
	ErrFixtureUnavailable = errors.New("fixture unavailable")

	// ErrRecordingActive is returned when starting playback while a session
	// is already recording.
	ErrRecordingActive = errors.New("recording already active")

	// ErrNoActiveVisit is returned by session operations that require a
	// consented visit.
	ErrNoActiveVisit = errors.New("no active visit")

	// ErrConsentRequired is returned when a visit is started without consent.
	ErrConsentRequired = errors.New("consent required")

	// ErrStaleInsights indicates a completed insight generation whose inputs
	// no longer match the latest session state; its result is discarded.
	ErrStaleInsights = errors.New("stale insight generation discarded")
)
