package tabular

import (
	"errors"
	"strings"
	"testing"

	"golisting/domain/core"
)

// TestResolveExplicit tests that a requested profile is trusted as-is
func TestResolveExplicit(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		wantName  string
		wantErr   error
	}{
		{"seller_elf by name", ProfileSellerElf, ProfileSellerElf, nil},
		{"sif by name", ProfileSif, ProfileSif, nil},
		{"unknown name", "helium10", "", core.ErrUnknownProfile},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Column set deliberately unrelated to any profile: explicit
			// requests skip shape validation.
			p, err := Resolve([]string{"a", "b"}, test.requested)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("expected %v, got %v", test.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != test.wantName {
				t.Errorf("expected profile %s, got %s", test.wantName, p.Name)
			}
		})
	}
}

// TestResolveAutoDetection tests required-column subset matching
func TestResolveAutoDetection(t *testing.T) {
	sellerElfCols := []string{"关键词", "月搜索量", "月购买量", "购买率", "前十ASIN", "展示量"}
	sifCols := []string{"关键词", "周搜索量", "在售商品数", "周搜索量排名", "有效竞品数"}

	tests := []struct {
		name     string
		columns  []string
		wantName string
		wantErr  error
	}{
		{"seller_elf columns", sellerElfCols, ProfileSellerElf, nil},
		{"sif columns without hint", sifCols, ProfileSif, nil},
		{"superset of both prefers larger required set", append(append([]string{}, sellerElfCols...), sifCols...), ProfileSellerElf, nil},
		{"unrelated columns", []string{"sku", "price"}, "", core.ErrProfileDetection},
		{"empty column set", nil, "", core.ErrProfileDetection},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, err := Resolve(test.columns, "")
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("expected %v, got %v", test.wantErr, err)
				}
				// Detection failures must name the candidates considered.
				for _, candidate := range Names() {
					if !strings.Contains(err.Error(), candidate) {
						t.Errorf("error %q does not mention candidate %s", err, candidate)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != test.wantName {
				t.Errorf("expected profile %s, got %s", test.wantName, p.Name)
			}
		})
	}
}

// TestRuleFor tests per-column rule selection including prefix matching
func TestRuleFor(t *testing.T) {
	sellerElf, _ := Lookup(ProfileSellerElf)
	sif, _ := Lookup(ProfileSif)

	tests := []struct {
		name    string
		profile Profile
		column  string
		want    CoercionKind
	}{
		{"monthly volume is numeric", sellerElf, "月搜索量", CoerceNumeric},
		{"purchase rate is numeric", sellerElf, "购买率", CoerceNumeric},
		{"top ten asins are a list", sellerElf, "前十ASIN", CoerceList},
		{"keyword passes through", sellerElf, "关键词", CoerceText},
		{"unknown column passes through", sellerElf, "备注", CoerceText},
		{"weekly volume is numeric", sif, "周搜索量", CoerceNumeric},
		{"asin share column is percentage", sif, "B0B5HRHM9N", CoercePercent},
		{"asin keyword-type column stays text", sif, "B0B5HRHM9N关键词类型", CoerceText},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rule := test.profile.RuleFor(test.column)
			if rule.Kind != test.want {
				t.Errorf("RuleFor(%s) = %s, want %s", test.column, rule.Kind, test.want)
			}
		})
	}
}

// TestProfileHeaderOffsets tests the catalog's declared header rows
func TestProfileHeaderOffsets(t *testing.T) {
	sellerElf, ok := Lookup(ProfileSellerElf)
	if !ok || sellerElf.HeaderRow != 0 {
		t.Errorf("seller_elf header row = %d, want 0", sellerElf.HeaderRow)
	}
	sif, ok := Lookup(ProfileSif)
	if !ok || sif.HeaderRow != 1 {
		t.Errorf("sif header row = %d, want 1", sif.HeaderRow)
	}
}

// TestIsNumericColumn tests numeric classification used by the renderer
func TestIsNumericColumn(t *testing.T) {
	sif, _ := Lookup(ProfileSif)
	if !sif.IsNumericColumn("周搜索量") {
		t.Error("周搜索量 should be numeric")
	}
	if !sif.IsNumericColumn("B0ABC12345") {
		t.Error("percentage columns count as numeric")
	}
	if sif.IsNumericColumn("关键词") {
		t.Error("the keyword column is not numeric")
	}
}
