package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	dberror "querycore/pkg/error"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
)

// TableManager manages the catalog of tables, providing thread-safe operations
// for adding, removing, and querying table metadata. It maintains bidirectional
// mappings between table names and IDs for efficient lookups.
type TableManager struct {
	nameToTable map[string]*TableInfo             // Maps table names to TableInfo objects
	idToTable   map[primitives.TableID]*TableInfo // Maps table IDs to TableInfo objects
	nextID      primitives.TableID
	mutex       sync.RWMutex // Protects concurrent access to the maps
}

// NewTableManager creates a new empty TableManager instance.
func NewTableManager() *TableManager {
	return &TableManager{
		nameToTable: make(map[string]*TableInfo),
		idToTable:   make(map[primitives.TableID]*TableInfo),
		nextID:      1,
	}
}

// AddTable creates an empty table and returns its ID. IDs are never reused.
func (tm *TableManager) AddTable(name string, td *tuple.TupleDescription) (primitives.TableID, error) {
	if name == "" {
		return primitives.InvalidTableID, fmt.Errorf("table name cannot be empty")
	}
	if td == nil {
		return primitives.InvalidTableID, fmt.Errorf("tuple description cannot be nil")
	}

	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if _, exists := tm.nameToTable[name]; exists {
		return primitives.InvalidTableID, fmt.Errorf("table '%s' already exists", name)
	}

	id := tm.nextID
	tm.nextID++

	info := NewTableInfo(id, name, td)
	tm.nameToTable[name] = info
	tm.idToTable[id] = info
	return id, nil
}

// GetTableID retrieves the unique identifier for a table given its name.
func (tm *TableManager) GetTableID(tableName string) (primitives.TableID, error) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	tableInfo, exists := tm.nameToTable[tableName]
	if !exists {
		return primitives.InvalidTableID, fmt.Errorf("table '%s' not found", tableName)
	}
	return tableInfo.ID, nil
}

// GetTableName retrieves the name of a table given its unique identifier.
func (tm *TableManager) GetTableName(tableID primitives.TableID) (string, error) {
	info, err := tm.getTableInfo(tableID)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

// RemoveTable removes a table and all of its tuples from the catalog.
func (tm *TableManager) RemoveTable(name string) error {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	tableInfo, exists := tm.nameToTable[name]
	if !exists {
		return fmt.Errorf("table '%s' not found", name)
	}

	delete(tm.nameToTable, name)
	delete(tm.idToTable, tableInfo.ID)
	return nil
}

// GetTupleDesc retrieves the tuple description (schema) for a table given its ID.
func (tm *TableManager) GetTupleDesc(tableID primitives.TableID) (*tuple.TupleDescription, error) {
	info, err := tm.getTableInfo(tableID)
	if err != nil {
		return nil, err
	}
	return info.TupleDesc, nil
}

// GetAllTableNames returns the names of all tables, sorted.
func (tm *TableManager) GetAllTableNames() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	names := make([]string, 0, len(tm.nameToTable))
	for name := range tm.nameToTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAllTableIDs returns the IDs of all tables in ascending order.
func (tm *TableManager) GetAllTableIDs() []primitives.TableID {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	ids := make([]primitives.TableID, 0, len(tm.idToTable))
	for id := range tm.idToTable {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TableExists checks whether a table with the given name exists.
func (tm *TableManager) TableExists(name string) bool {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	_, exists := tm.nameToTable[name]
	return exists
}

func (tm *TableManager) String() string {
	var sb strings.Builder
	sb.WriteString("TableManager{")
	for i, name := range tm.GetAllTableNames() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
	}
	sb.WriteString("}")
	return sb.String()
}

func (tm *TableManager) getTableInfo(tableID primitives.TableID) (*TableInfo, error) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	info, exists := tm.idToTable[tableID]
	if !exists {
		return nil, dberror.IllegalState("getTableInfo", "TableManager", "table with ID %d not found", tableID)
	}
	return info, nil
}
