package database

// Row 一行查询结果，保留结果集的列顺序
type Row struct {
	columns []string
	values  map[string]any
}

// NewRow 由列名列表和列值映射构造一行结果
func NewRow(columns []string, values map[string]any) Row {
	return Row{columns: columns, values: values}
}

// Columns 返回结果集中的列名，顺序与查询语句一致
func (r Row) Columns() []string {
	return r.columns
}

// Get 返回指定列的值，列不存在时返回 nil
func (r Row) Get(column string) any {
	return r.values[column]
}

// Has 判断结果中是否包含指定列
func (r Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Values 返回列名到值的映射
func (r Row) Values() map[string]any {
	return r.values
}
