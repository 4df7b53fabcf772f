package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/logging"
)

// Options holds the selector lists. A list that failed to load is empty and
// its error is reported under the list name.
type Options struct {
	Programas []domain.Option   `json:"programas"`
	Impulsos  []domain.Option   `json:"impulsos"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// ErrOptionsUnavailable is returned when no selector list could be loaded.
var ErrOptionsUnavailable = errors.New("selector options unavailable")

// Options fetches programs and incentive types concurrently. The lists are
// independent of any session, so a late answer never touches draft values.
func (m *Manager) Options(ctx context.Context) (*Options, error) {
	out := &Options{Programas: []domain.Option{}, Impulsos: []domain.Option{}}
	var progErr, impErr error

	var g errgroup.Group
	g.Go(func() error {
		list, err := m.remote.ListProgramas(ctx)
		if err != nil {
			progErr = err
			return nil
		}
		out.Programas = list
		return nil
	})
	g.Go(func() error {
		list, err := m.remote.ListImpulsos(ctx)
		if err != nil {
			impErr = err
			return nil
		}
		out.Impulsos = list
		return nil
	})
	_ = g.Wait()

	logger := logging.NewLogger(ctx)
	if progErr != nil {
		logger.LogError("list_programas", progErr)
	}
	if impErr != nil {
		logger.LogError("list_impulsos", impErr)
	}
	if progErr != nil && impErr != nil {
		return nil, errors.Join(ErrOptionsUnavailable, progErr, impErr)
	}
	if progErr != nil || impErr != nil {
		out.Errors = map[string]string{}
		if progErr != nil {
			out.Errors["programas"] = domain.RemoteFailureMessage
		}
		if impErr != nil {
			out.Errors["impulsos"] = domain.RemoteFailureMessage
		}
	}
	return out, nil
}
