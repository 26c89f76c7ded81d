package statistics

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/zeebo/xxh3"

	dberror "querycore/pkg/error"
	"querycore/pkg/primitives"
	"querycore/pkg/types"
)

// RegistryConfig sizes the estimate memo of a Registry.
type RegistryConfig struct {
	// CacheCounters is the number of keys tracked for admission, about 10x
	// the expected number of distinct estimates.
	CacheCounters int64

	// CacheMaxCost is the number of estimates kept. Each costs 1.
	CacheMaxCost int64
}

// DefaultRegistryConfig returns a config holding up to 10k estimates.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		CacheCounters: 100_000,
		CacheMaxCost:  10_000,
	}
}

// Registry is a read-only catalog of table statistics. Estimates are memoized
// per (table, column, operator, constant).
//
// Registry is safe for concurrent use once built.
type Registry struct {
	tables map[primitives.TableID]*TableStats
	cache  *ristretto.Cache
}

// NewRegistry wraps stats. The map is copied; the TableStats are shared and
// must not be modified afterwards.
func NewRegistry(stats map[primitives.TableID]*TableStats, config RegistryConfig) (*Registry, error) {
	if config.CacheCounters <= 0 || config.CacheMaxCost <= 0 {
		config = DefaultRegistryConfig()
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.CacheCounters,
		MaxCost:     config.CacheMaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create estimate cache: %w", err)
	}

	tables := make(map[primitives.TableID]*TableStats, len(stats))
	for id, ts := range stats {
		tables[id] = ts
	}
	return &Registry{tables: tables, cache: cache}, nil
}

// Get returns the statistics of tableID.
func (r *Registry) Get(tableID primitives.TableID) (*TableStats, bool) {
	ts, ok := r.tables[tableID]
	return ts, ok
}

// Len returns the number of tables with statistics.
func (r *Registry) Len() int {
	return len(r.tables)
}

// EstimateSelectivity returns the selectivity of "field op constant" on
// tableID. Returns ILLEGAL_STATE when the table has no statistics.
func (r *Registry) EstimateSelectivity(tableID primitives.TableID, field int, op primitives.Predicate, constant types.Field) (float64, error) {
	ts, ok := r.tables[tableID]
	if !ok {
		return 0, dberror.IllegalState("EstimateSelectivity", "Registry", "no statistics for table %s", tableID)
	}
	if constant == nil {
		return 0, dberror.IllegalState("EstimateSelectivity", "Registry", "constant is not set")
	}

	key, err := estimateKey(tableID, field, op, constant)
	if err != nil {
		return 0, err
	}
	if v, found := r.cache.Get(key); found {
		if e := v.(estimate); e.matches(tableID, field, op, constant) {
			return e.selectivity, nil
		}
	}

	sel, err := ts.EstimateSelectivity(field, op, constant)
	if err != nil {
		return 0, err
	}
	r.cache.Set(key, estimate{
		tableID:     tableID,
		field:       field,
		op:          op,
		constant:    constant,
		selectivity: sel,
	}, 1)
	return sel, nil
}

// Close releases the estimate memo. The Registry must not be used afterwards.
func (r *Registry) Close() {
	r.cache.Close()
}

// estimate is a memoized selectivity together with its inputs. Keys are
// 64-bit hashes, so a hit is only trusted when the inputs match.
type estimate struct {
	tableID     primitives.TableID
	field       int
	op          primitives.Predicate
	constant    types.Field
	selectivity float64
}

func (e estimate) matches(tableID primitives.TableID, field int, op primitives.Predicate, constant types.Field) bool {
	return e.tableID == tableID && e.field == field && e.op == op &&
		e.constant.Type() == constant.Type() && e.constant.Equals(constant)
}

// estimateKey hashes (table, column, operator, constant type, constant hash).
func estimateKey(tableID primitives.TableID, field int, op primitives.Predicate, constant types.Field) (uint64, error) {
	h, err := constant.Hash()
	if err != nil {
		return 0, err
	}

	var b [33]byte
	binary.BigEndian.PutUint64(b[0:], uint64(tableID))
	binary.BigEndian.PutUint64(b[8:], uint64(field)) // #nosec G115
	binary.BigEndian.PutUint64(b[16:], uint64(op))   // #nosec G115
	b[24] = byte(constant.Type())
	binary.BigEndian.PutUint64(b[25:], uint64(h))
	return xxh3.Hash(b[:]), nil
}
