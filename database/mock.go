package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ridoystarlord/bakery/query"
)

// ErrMockExhausted is returned once a MockExecutor has no scripted result
// left for the kind of statement requested.
var ErrMockExhausted = errors.New("mock executor: no scripted result left")

type mockQuery struct {
	rows []Row
	err  error
}

type mockExec struct {
	res ExecResult
	err error
}

// MockExecutor replays scripted results in call order. Reads (Query)
// consume the query queue and writes (Exec) the exec queue. The statement
// text is recorded but never compared with anything, so results must be
// appended in exactly the order the code under test issues statements.
type MockExecutor struct {
	mu      sync.Mutex
	dialect string
	queries []mockQuery
	execs   []mockExec
	log     []query.Statement
}

func NewMockExecutor(dialect string) *MockExecutor {
	return &MockExecutor{dialect: dialect}
}

func (m *MockExecutor) Dialect() string { return m.dialect }

// AppendQueryResults queues one result batch per argument.
func (m *MockExecutor) AppendQueryResults(batches ...[]Row) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range batches {
		m.queries = append(m.queries, mockQuery{rows: b})
	}
	return m
}

// AppendQueryError queues a failing read.
func (m *MockExecutor) AppendQueryError(err error) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, mockQuery{err: err})
	return m
}

func (m *MockExecutor) AppendExecResults(results ...ExecResult) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range results {
		m.execs = append(m.execs, mockExec{res: r})
	}
	return m
}

func (m *MockExecutor) AppendExecError(err error) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.execs = append(m.execs, mockExec{err: err})
	return m
}

func (m *MockExecutor) Query(_ context.Context, stmt query.Statement) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = append(m.log, stmt)
	if len(m.queries) == 0 {
		return nil, fmt.Errorf("%w: query %s", ErrMockExhausted, stmt.SQL)
	}
	next := m.queries[0]
	m.queries = m.queries[1:]
	if next.err != nil {
		return nil, classify(next.err)
	}
	return next.rows, nil
}

func (m *MockExecutor) Exec(_ context.Context, stmt query.Statement) (ExecResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = append(m.log, stmt)
	if len(m.execs) == 0 {
		return ExecResult{}, fmt.Errorf("%w: exec %s", ErrMockExhausted, stmt.SQL)
	}
	next := m.execs[0]
	m.execs = m.execs[1:]
	if next.err != nil {
		return ExecResult{}, classify(next.err)
	}
	return next.res, nil
}

// Log returns every statement received so far, in order.
func (m *MockExecutor) Log() []query.Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]query.Statement(nil), m.log...)
}

// Pending returns how many scripted query and exec results are unused.
func (m *MockExecutor) Pending() (queries, execs int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries), len(m.execs)
}
