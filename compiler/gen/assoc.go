package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlauto/compiler/load"
)

// Associations renders the association declarations of the given relations.
// It returns the belongsToMany lines and the belongsTo/hasOne/hasMany lines
// separately, each in relation order.
func Associations(rels []*load.Relation, fks map[string]map[string]*load.ForeignKey, cfg *Config) (m2m, owners string, err error) {
	var (
		bm strings.Builder
		bo strings.Builder
		sp = cfg.Indent(1)
	)
	for i, rel := range rels {
		_, child := load.SplitQName(rel.ChildTable)
		cols, ok := fks[child]
		if !ok {
			return "", "", &MissingTableError{Relation: i, Map: "foreignKeys", Table: child}
		}
		if rel.IsM2M {
			as := Recase(cfg.CaseProp, Pluralize(rel.ChildProp), false)
			fmt.Fprintf(&bm, "%s%s.belongsToMany(%s, { as: '%s', through: %s, foreignKey: \"%s\", otherKey: \"%s\" });\n",
				sp, rel.ParentModel, rel.ChildModel, as, rel.JoinModel, rel.ParentID, rel.ChildID)
			continue
		}
		fk, ok := cols[rel.ParentID]
		if !ok {
			return "", "", &MissingTableError{Relation: i, Map: "foreignKeys", Table: child, Column: rel.ParentID}
		}
		fmt.Fprintf(&bo, "%s%s.belongsTo(%s, { %sforeignKey: \"%s\"});\n",
			sp, rel.ChildModel, rel.ParentModel, alias(cfg, rel.ParentProp), rel.ParentID)

		has := "hasMany"
		if rel.IsOne {
			has = "hasOne"
		}
		fmt.Fprintf(&bo, "%s%s.%s(%s, { %sforeignKey: \"%s\"%s});\n",
			sp, rel.ParentModel, has, rel.ChildModel, alias(cfg, rel.ChildProp), rel.ParentID, rules(fk))
	}
	return bm.String(), bo.String(), nil
}

// AssociationText returns the association fragment spliced into init-models:
// all belongsToMany lines first, then the ownership lines.
func AssociationText(rels []*load.Relation, fks map[string]map[string]*load.ForeignKey, cfg *Config) (string, error) {
	m2m, owners, err := Associations(rels, fks, cfg)
	if err != nil {
		return "", err
	}
	return m2m + owners, nil
}

func alias(cfg *Config, prop string) string {
	if cfg.NoAlias {
		return ""
	}
	return fmt.Sprintf("as: \"%s\", ", Recase(cfg.CaseProp, prop, false))
}

// rules renders the onUpdate/onDelete clauses present on the column.
func rules(fk *load.ForeignKey) string {
	var rs []string
	if fk.RuleUpdate != "" {
		rs = append(rs, fmt.Sprintf("onUpdate: '%s'", fk.RuleUpdate))
	}
	if fk.RuleDelete != "" {
		rs = append(rs, fmt.Sprintf("onDelete: '%s'", fk.RuleDelete))
	}
	if len(rs) == 0 {
		return ""
	}
	return ", " + strings.Join(rs, ",")
}
