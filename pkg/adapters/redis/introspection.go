package redis

import "github.com/aretw0/introspection"

// StoreState exposes connection details for observability.
type StoreState struct {
	Address   string `json:"address"`
	Prefix    string `json:"prefix"`
	TotalConn uint32 `json:"total_conns"`
	IdleConn  uint32 `json:"idle_conns"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	stats := s.client.PoolStats()
	return StoreState{
		Address:   s.client.Options().Addr,
		Prefix:    s.prefix,
		TotalConn: stats.TotalConns,
		IdleConn:  stats.IdleConns,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "redis"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
