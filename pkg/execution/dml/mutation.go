package dml

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gertd/go-pluralize"

	"querycore/pkg/concurrency/transaction"
	dberror "querycore/pkg/error"
	"querycore/pkg/iterator"
	"querycore/pkg/logging"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

var plural = pluralize.NewClient()

// countDesc is the schema of the single result tuple.
var countDesc = tuple.MustTupleDesc([]types.Type{types.IntType}, []string{"count"})

// applyFunc performs one mutation.
type applyFunc func(t *tuple.Tuple) error

// mutationOperator holds what Insert and Delete share: the transaction, the
// run-once flag and the drain loop.
type mutationOperator struct {
	*iterator.UnaryOperator
	name    string
	verb    string
	tx      *transaction.TransactionContext
	fetched bool
	apply   applyFunc
	record  func(ctx context.Context, n int64)
	opts    options
	attrs   []any
}

func newMutationOperator(name, verb string, tx *transaction.TransactionContext, child iterator.DbIterator, opts []Option) (*mutationOperator, error) {
	if tx == nil {
		return nil, dberror.IllegalState("newMutationOperator", name, "transaction cannot be nil")
	}

	m := &mutationOperator{
		name:  name,
		verb:  verb,
		tx:    tx,
		opts:  buildOptions(opts),
		attrs: []any{"operator", name},
	}

	unary, err := iterator.NewUnaryOperator(child, m.readNext)
	if err != nil {
		return nil, err
	}
	m.UnaryOperator = unary
	return m, nil
}

// GetTupleDesc returns the one-column INT schema of the count tuple.
func (m *mutationOperator) GetTupleDesc() *tuple.TupleDescription {
	return countDesc
}

// readNext runs the mutation on the first call and reports exhaustion afterwards.
func (m *mutationOperator) readNext() (*tuple.Tuple, error) {
	if m.fetched {
		return nil, nil
	}
	m.fetched = true

	count, err := m.drain()
	if err != nil {
		m.opts.metrics.Failure(context.Background(), m.name, errorCode(err))
		logging.WithError(err).With(m.attrs...).Warn(m.name+" aborted",
			"tx_id", m.tx.ID.ID(),
			"affected", count,
		)
		return nil, err
	}

	m.record(context.Background(), count)
	m.logger().Info(fmt.Sprintf("%s %s", plural.Pluralize("row", int(count), true), m.verb))

	result := tuple.NewTuple(countDesc)
	if err := result.SetField(0, types.NewIntField(count)); err != nil {
		return nil, err
	}
	return result, nil
}

// drain applies the mutation to every child tuple and returns how many
// succeeded. It stops at the first failure.
func (m *mutationOperator) drain() (int64, error) {
	if !m.tx.IsActive() {
		return 0, dberror.TransactionAborted("drain", m.name, "transaction %s is %s", m.tx.ID, m.tx.GetStatus())
	}

	var count int64
	err := iterator.ForEach(m.GetChild(), func(t *tuple.Tuple) error {
		if err := m.apply(t); err != nil {
			return fmt.Errorf("%s failed after %s: %w",
				m.name, plural.Pluralize("row", int(count), true),
				dberror.StorageFailure(err, "drain", m.name))
		}
		count++
		return nil
	})
	return count, err
}

func (m *mutationOperator) logger() *slog.Logger {
	return logging.WithTx(m.tx.ID.ID()).With(m.attrs...)
}

func errorCode(err error) string {
	var dbErr *dberror.DBError
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return "UNKNOWN"
}
