package db

// Table is the part of a database table the importer maps onto a model
type Table struct {
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
}

// Column represents a table column
type Column struct {
	Name         string
	Type         string
	Nullable     bool
	DefaultValue *string
	IsUnique     bool
	IsPrimaryKey bool
	EnumValues   []string
}

// ForeignKey represents a single-column foreign key
type ForeignKey struct {
	Column       string
	TargetTable  string
	TargetColumn string
}

// foreignKey returns the foreign key declared on column
func (t *Table) foreignKey(column string) (ForeignKey, bool) {
	for _, fk := range t.ForeignKeys {
		if fk.Column == column {
			return fk, true
		}
	}
	return ForeignKey{}, false
}
