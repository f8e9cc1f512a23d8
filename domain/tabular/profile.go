package tabular

import (
	"strings"

	"golisting/domain/core"
)

// CoercionKind selects the rule applied to one column's cells
type CoercionKind string

const (
	CoerceNumeric CoercionKind = "numeric"
	CoercePercent CoercionKind = "percentage"
	CoerceText    CoercionKind = "text"
	CoerceList    CoercionKind = "list"
)

// Known profile identifiers
const (
	ProfileSellerElf = "seller_elf"
	ProfileSif       = "sif"
)

// ColumnRule binds a coercion kind to the columns it governs. A rule matches
// by exact label, or by label prefix when Prefix is set; prefix rules skip
// labels containing Exclude.
type ColumnRule struct {
	Column    string
	Prefix    string
	Exclude   string
	Kind      CoercionKind
	Delimiter string
}

// Profile declares how one known spreadsheet layout is interpreted: header
// offset, required columns used for auto-detection, the key/filter column,
// the sort key, and per-column coercion rules.
type Profile struct {
	Name      string
	HeaderRow int
	Required  []string
	KeyColumn string
	SortKey   string
	Rules     []ColumnRule
}

// RuleFor returns the rule governing a column. Columns no rule claims fall
// back to pass-through text.
func (p Profile) RuleFor(column string) ColumnRule {
	for _, r := range p.Rules {
		if r.Column != "" && r.Column == column {
			return r
		}
		if r.Prefix != "" && strings.HasPrefix(column, r.Prefix) {
			if r.Exclude != "" && strings.Contains(column, r.Exclude) {
				continue
			}
			return r
		}
	}
	return ColumnRule{Column: column, Kind: CoerceText}
}

// IsNumericColumn reports whether a column carries numbers after coercion
func (p Profile) IsNumericColumn(column string) bool {
	kind := p.RuleFor(column).Kind
	return kind == CoerceNumeric || kind == CoercePercent
}

// The catalog is process-wide read-only configuration: initialized here,
// never mutated at runtime, safe for concurrent reads. Declaration order
// settles detection ties (seller_elf first).
//
// Column labels are the Chinese headers of the source exports: 关键词
// keyword, 月搜索量 monthly search volume, 月购买量 monthly purchases,
// 购买率 purchase rate, 前十ASIN top-10 ASIN list, 周搜索量 weekly search
// volume, 在售商品数 listed-item count, 周搜索量排名 weekly search rank.
var catalog = []Profile{
	{
		Name:      ProfileSellerElf,
		HeaderRow: 0,
		Required:  []string{"关键词", "月搜索量", "月购买量", "购买率", "前十ASIN"},
		KeyColumn: "关键词",
		SortKey:   "月搜索量",
		Rules: append(
			numericRules(
				"月搜索量", "月购买量", "购买率", "展示量", "点击量",
				"商品数", "需供比", "广告竞品数", "ABA周排名", "预估周曝光量",
				"流量占比", "点击总占比", "转化总占比",
				"#1 点击共享", "#1 转化共享", "#2 点击共享", "#2 转化共享",
				"#3 点击共享", "#3 转化共享",
			),
			listRules("相关ASIN", "前十ASIN", "#1 前三ASIN", "#2 前三ASIN", "#3 前三ASIN")...,
		),
	},
	{
		Name:      ProfileSif,
		HeaderRow: 1,
		Required:  []string{"关键词", "周搜索量", "在售商品数", "周搜索量排名"},
		KeyColumn: "关键词",
		SortKey:   "周搜索量",
		Rules: append(
			numericRules("周搜索量", "在售商品数", "周搜索量排名", "有效竞品数"),
			// ASIN-labeled columns (e.g. B0B5HRHM9N) hold percentage strings;
			// the companion 关键词类型 columns stay textual.
			ColumnRule{Prefix: "B0", Exclude: "关键词类型", Kind: CoercePercent},
		),
	},
}

func numericRules(columns ...string) []ColumnRule {
	rules := make([]ColumnRule, 0, len(columns))
	for _, c := range columns {
		rules = append(rules, ColumnRule{Column: c, Kind: CoerceNumeric})
	}
	return rules
}

func listRules(columns ...string) []ColumnRule {
	rules := make([]ColumnRule, 0, len(columns))
	for _, c := range columns {
		rules = append(rules, ColumnRule{Column: c, Kind: CoerceList, Delimiter: ","})
	}
	return rules
}

// Names returns the catalog's profile identifiers in declaration order
func Names() []string {
	names := make([]string, len(catalog))
	for i, p := range catalog {
		names[i] = p.Name
	}
	return names
}

// Lookup finds a profile by identifier
func Lookup(name string) (Profile, bool) {
	for _, p := range catalog {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Resolve picks the profile for a set of column labels. An explicitly
// requested profile is trusted without shape validation. Otherwise a profile
// qualifies only when its full required-column set is present; the largest
// required set wins and declaration order breaks ties.
func Resolve(columns []string, requested string) (Profile, error) {
	if requested != "" {
		p, ok := Lookup(requested)
		if !ok {
			return Profile{}, core.NewUnknownProfileError(requested, Names())
		}
		return p, nil
	}

	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	best := -1
	for i, p := range catalog {
		if !containsAll(present, p.Required) {
			continue
		}
		if best < 0 || len(p.Required) > len(catalog[best].Required) {
			best = i
		}
	}
	if best < 0 {
		return Profile{}, core.NewProfileDetectionError(Names())
	}
	return catalog[best], nil
}

func containsAll(set map[string]bool, required []string) bool {
	for _, c := range required {
		if !set[c] {
			return false
		}
	}
	return true
}
