package sql

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ExecQuerier is the connection interface the schema inspectors use.
// Both *sql.DB and *StatsConn implement it.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// QueryStats holds query execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of queries executed.
	TotalQueries atomic.Int64
	// TotalExecs is the total number of exec statements executed.
	TotalExecs atomic.Int64
	// TotalDuration is the total time spent executing queries.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of queries exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of query errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the average query duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors,
	)
}

// StatsConn wraps a connection with query statistics and query logging.
// Every statement is logged at debug level, slow ones at warn level.
type StatsConn struct {
	conn          ExecQuerier
	stats         *QueryStats
	log           *zap.Logger
	mu            sync.RWMutex
	slowThreshold time.Duration
}

// StatsOption configures a StatsConn.
type StatsOption func(*StatsConn)

// WithSlowThreshold sets the threshold for slow query detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsConn) {
		s.slowThreshold = d
	}
}

// WithQueryLogger sets the logger of executed statements.
// Defaults to a no-op logger.
func WithQueryLogger(l *zap.Logger) StatsOption {
	return func(s *StatsConn) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStatsConn wraps conn with statistics collection.
//
//	conn := sql.NewStatsConn(drv.DB(), sql.WithQueryLogger(log))
//	atlas, err := postgres.Open(conn)
//	...
//	log.Info("inspected", zap.Stringer("queries", conn.QueryStats().Stats()))
func NewStatsConn(conn ExecQuerier, opts ...StatsOption) *StatsConn {
	s := &StatsConn{
		conn:          conn,
		stats:         &QueryStats{},
		log:           zap.NewNop(),
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (s *StatsConn) QueryStats() *QueryStats {
	return s.stats
}

// SlowThreshold returns the current slow query threshold.
func (s *StatsConn) SlowThreshold() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slowThreshold
}

// SetSlowThreshold updates the slow query threshold.
func (s *StatsConn) SetSlowThreshold(threshold time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slowThreshold = threshold
}

// QueryContext executes a query and records statistics.
func (s *StatsConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query, args...)
	s.record(query, args, start, err, true)
	return rows, err
}

// ExecContext executes a statement and records statistics.
func (s *StatsConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := s.conn.ExecContext(ctx, query, args...)
	s.record(query, args, start, err, false)
	return res, err
}

func (s *StatsConn) record(query string, args []any, start time.Time, err error, isQuery bool) {
	duration := time.Since(start)
	if isQuery {
		s.stats.TotalQueries.Add(1)
	} else {
		s.stats.TotalExecs.Add(1)
	}
	s.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		s.stats.Errors.Add(1)
	}
	s.log.Debug("query",
		zap.String("query", query),
		zap.Any("args", args),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
	if duration > s.SlowThreshold() {
		s.stats.SlowQueries.Add(1)
		s.log.Warn("slow query detected",
			zap.String("query", query),
			zap.Duration("duration", duration),
		)
	}
}

var (
	_ ExecQuerier = (*sql.DB)(nil)
	_ ExecQuerier = (*StatsConn)(nil)
)
