package gen

import (
	"slices"
	"sort"
	"strings"

	"github.com/syssam/sqlauto/compiler/load"
)

// BuildRelations infers the relations of td from its foreign keys.
//
// Every foreign-key column yields a belongsTo/hasOne/hasMany relation from
// the referenced table (parent) to the referencing table (child). A column
// that is also part of the primary key, next to exactly one other
// foreign-key primary-key column, marks a junction table and additionally
// yields a many-to-many relation between the two referenced tables.
// Keys referencing a table missing from td.ForeignKeys are ignored.
// The result is sorted by parent then child table.
func BuildRelations(td *load.TableData, cfg *Config) []*load.Relation {
	r := &relater{
		cfg:    cfg,
		used:   make(map[string]struct{}),
		qnames: make(map[string]string),
		known:  make(map[string]bool),
	}
	for _, q := range append(td.TableNames(), tableKeys(td.Tables)...) {
		if s, n := load.SplitQName(q); s != "" {
			if _, ok := r.qnames[n]; !ok {
				r.qnames[n] = q
			}
		}
	}
	tables := make([]string, 0, len(td.ForeignKeys))
	for t := range td.ForeignKeys {
		tables = append(tables, t)
		r.known[t] = true
	}
	sort.Strings(tables)
	for _, t := range tables {
		cols := td.ForeignKeys[t]
		names := make([]string, 0, len(cols))
		for c := range cols {
			names = append(names, c)
		}
		sort.Strings(names)
		for _, c := range names {
			if fk := cols[c]; fk.IsForeignKey && r.known[fk.TargetTable] {
				r.add(t, c, fk, cols)
			}
		}
	}
	sort.SliceStable(r.rels, func(i, j int) bool {
		a, b := r.rels[i], r.rels[j]
		if a.ParentTable != b.ParentTable {
			return a.ParentTable < b.ParentTable
		}
		return a.ChildTable < b.ChildTable
	})
	return r.rels
}

func tableKeys(m map[string]*load.Table) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type relater struct {
	cfg  *Config
	rels []*load.Relation
	// used holds "table.prop" of every property already assigned.
	used map[string]struct{}
	// qnames maps unqualified to qualified table names.
	qnames map[string]string
	// known holds the tables that may take part in a relation.
	known map[string]bool
}

func (r *relater) add(table, col string, fk *load.ForeignKey, cols map[string]*load.ForeignKey) {
	source := fk.SourceTable
	if source == "" {
		source = table
	}
	var (
		model       = r.cfg.ModelName(source)
		targetModel = r.cfg.ModelName(fk.TargetTable)
		parentProp  = r.alias(col, fk.TargetTable, source)
		childProp   = r.childAlias(col, source, fk.TargetTable)
		isOne       = fk.IsPrimaryKey && !others(cols, col, func(o *load.ForeignKey) bool { return o.IsPrimaryKey }) ||
			fk.IsUnique && !others(cols, col, func(o *load.ForeignKey) bool { return o.IsUnique })
	)
	if !isOne && r.cfg.Pluralize {
		childProp = Pluralize(childProp)
	}
	r.rels = append(r.rels, &load.Relation{
		ParentID:    col,
		ParentModel: targetModel,
		ParentProp:  parentProp,
		ParentTable: r.qualify(fk.TargetSchema, fk.TargetTable),
		ChildModel:  model,
		ChildProp:   childProp,
		ChildTable:  r.qualify(fk.SourceSchema, source),
		IsOne:       isOne,
	})
	if !fk.IsPrimaryKey {
		return
	}
	var junction []string
	for name, o := range cols {
		if name != col && o.IsForeignKey && o.IsPrimaryKey {
			junction = append(junction, name)
		}
	}
	if len(junction) != 1 || !r.known[cols[junction[0]].TargetTable] {
		return
	}
	other := cols[junction[0]]
	otherProp := r.m2mAlias(junction[0], other.TargetTable, fk.TargetTable, source)
	r.rels = append(r.rels, &load.Relation{
		ParentID:    col,
		ParentModel: targetModel,
		ParentProp:  Pluralize(parentProp),
		ParentTable: r.qualify(fk.TargetSchema, fk.TargetTable),
		ChildModel:  r.cfg.ModelName(other.TargetTable),
		ChildProp:   Pluralize(otherProp),
		ChildTable:  r.qualify(other.TargetSchema, other.TargetTable),
		ChildID:     junction[0],
		JoinModel:   model,
		IsM2M:       true,
	})
}

// alias names the belongsTo property that the child (source) table gets
// for the column: the column without its key suffix, or the column joined
// with the target table when nothing can be trimmed.
func (r *relater) alias(col, target, source string) string {
	name := r.trimID(col)
	if name == col {
		name = col + "_" + target
	}
	if r.isUsed(source, name) {
		name = name + "_" + target
	}
	r.use(source, name)
	return Recase(r.cfg.CaseProp, name, true)
}

// childAlias names the hasOne/hasMany property that the parent (target)
// table gets: the child table name, prefixed by the trimmed column when
// the parent already has a property of that name.
func (r *relater) childAlias(col, source, target string) string {
	name := source
	if r.isUsed(target, name) {
		name = r.trimID(col) + "_" + source
	}
	name = Singularize(name)
	r.use(target, name)
	return Recase(r.cfg.CaseProp, name, true)
}

// m2mAlias names the belongsToMany property that owner gets for the
// other side of a junction table.
func (r *relater) m2mAlias(col, target, owner, junction string) string {
	name := r.trimID(col)
	if name == col {
		name = target
	}
	if r.isUsed(owner, name) {
		name = name + "_" + junction
	}
	r.use(owner, name)
	return Recase(r.cfg.CaseProp, name, true)
}

func (r *relater) isUsed(table, name string) bool {
	_, ok := r.used[table+"."+Singularize(name)]
	return ok
}

func (r *relater) use(table, name string) {
	r.used[table+"."+Singularize(name)] = struct{}{}
}

// trimID strips the configured key suffixes ("user_id" -> "user") and a
// trailing "id" ("userId" -> "user").
func (r *relater) trimID(name string) string {
	for _, s := range r.cfg.PKSuffixes {
		if s == "" {
			continue
		}
		if len(name) > len(s)+1 && strings.HasSuffix(strings.ToLower(name), "_"+strings.ToLower(s)) {
			name = name[:len(name)-len(s)-1]
		}
	}
	if len(name) > 3 && strings.HasSuffix(strings.ToLower(name), "id") {
		name = name[:len(name)-2]
	}
	return name
}

func (r *relater) qualify(schema, table string) string {
	if schema != "" {
		return load.QName(schema, table)
	}
	if q, ok := r.qnames[table]; ok {
		return q
	}
	return table
}

func others(cols map[string]*load.ForeignKey, col string, pred func(*load.ForeignKey) bool) bool {
	return slices.ContainsFunc(sortedCols(cols), func(name string) bool {
		return name != col && pred(cols[name])
	})
}

func sortedCols(cols map[string]*load.ForeignKey) []string {
	names := make([]string, 0, len(cols))
	for c := range cols {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}
