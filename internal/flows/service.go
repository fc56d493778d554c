package flows

import "context"

// Deps aggregates every flow dependency struct wired by the root client.
type Deps struct {
	Exchange ExchangeDeps
	Refresh  RefreshDeps
}

// Service is the centralized flow runner built once by the root client.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Exchange.Decode != nil && s.deps.Refresh.Send != nil
}

func (s Service) Exchange(ctx context.Context, send SendExchange) ExchangeResult {
	return RunExchange(ctx, send, s.deps.Exchange)
}

func (s Service) Refresh(ctx context.Context, refreshToken string) RefreshResult {
	return RunRefresh(ctx, refreshToken, s.deps.Refresh)
}
