// Package plate implements the GA 36-2018 plate numbering rules:
// province abbreviations, issuing-authority letter codes, sequence
// patterns, and generators for ordinary and new-energy plate numbers.
package plate

import (
	"math/rand/v2"

	"github.com/plateforge/plateforge/pkg/errors"
)

// ProvinceKind distinguishes the administrative divisions.
type ProvinceKind string

const (
	KindMunicipality ProvinceKind = "municipality"
	KindProvince     ProvinceKind = "province"
	KindAutonomous   ProvinceKind = "autonomous_region"
)

// Province is one GA 36-2018 administrative division.
type Province struct {
	Abbr string       // single-character abbreviation used on plates
	Name string       // full division name
	Code int          // numeric code, 1-31
	Kind ProvinceKind // division kind
}

// provinces lists all 31 divisions in numeric-code order.
var provinces = []Province{
	{Abbr: "京", Name: "北京市", Code: 1, Kind: KindMunicipality},
	{Abbr: "津", Name: "天津市", Code: 2, Kind: KindMunicipality},
	{Abbr: "冀", Name: "河北省", Code: 3, Kind: KindProvince},
	{Abbr: "晋", Name: "山西省", Code: 4, Kind: KindProvince},
	{Abbr: "蒙", Name: "内蒙古自治区", Code: 5, Kind: KindAutonomous},
	{Abbr: "辽", Name: "辽宁省", Code: 6, Kind: KindProvince},
	{Abbr: "吉", Name: "吉林省", Code: 7, Kind: KindProvince},
	{Abbr: "黑", Name: "黑龙江省", Code: 8, Kind: KindProvince},
	{Abbr: "沪", Name: "上海市", Code: 9, Kind: KindMunicipality},
	{Abbr: "苏", Name: "江苏省", Code: 10, Kind: KindProvince},
	{Abbr: "浙", Name: "浙江省", Code: 11, Kind: KindProvince},
	{Abbr: "皖", Name: "安徽省", Code: 12, Kind: KindProvince},
	{Abbr: "闽", Name: "福建省", Code: 13, Kind: KindProvince},
	{Abbr: "赣", Name: "江西省", Code: 14, Kind: KindProvince},
	{Abbr: "鲁", Name: "山东省", Code: 15, Kind: KindProvince},
	{Abbr: "豫", Name: "河南省", Code: 16, Kind: KindProvince},
	{Abbr: "鄂", Name: "湖北省", Code: 17, Kind: KindProvince},
	{Abbr: "湘", Name: "湖南省", Code: 18, Kind: KindProvince},
	{Abbr: "粤", Name: "广东省", Code: 19, Kind: KindProvince},
	{Abbr: "桂", Name: "广西壮族自治区", Code: 20, Kind: KindAutonomous},
	{Abbr: "琼", Name: "海南省", Code: 21, Kind: KindProvince},
	{Abbr: "渝", Name: "重庆市", Code: 22, Kind: KindMunicipality},
	{Abbr: "川", Name: "四川省", Code: 23, Kind: KindProvince},
	{Abbr: "贵", Name: "贵州省", Code: 24, Kind: KindProvince},
	{Abbr: "云", Name: "云南省", Code: 25, Kind: KindProvince},
	{Abbr: "藏", Name: "西藏自治区", Code: 26, Kind: KindAutonomous},
	{Abbr: "陕", Name: "陕西省", Code: 27, Kind: KindProvince},
	{Abbr: "甘", Name: "甘肃省", Code: 28, Kind: KindProvince},
	{Abbr: "青", Name: "青海省", Code: 29, Kind: KindProvince},
	{Abbr: "宁", Name: "宁夏回族自治区", Code: 30, Kind: KindAutonomous},
	{Abbr: "新", Name: "新疆维吾尔自治区", Code: 31, Kind: KindAutonomous},
}

var provincesByAbbr = func() map[string]Province {
	m := make(map[string]Province, len(provinces))
	for _, p := range provinces {
		m[p.Abbr] = p
	}
	return m
}()

// Provinces returns all divisions in numeric-code order.
func Provinces() []Province {
	out := make([]Province, len(provinces))
	copy(out, provinces)
	return out
}

// ProvinceByAbbr looks up a division by plate abbreviation.
func ProvinceByAbbr(abbr string) (Province, error) {
	p, ok := provincesByAbbr[abbr]
	if !ok {
		return Province{}, errors.New(errors.ErrCodeInvalidProvince, "unknown province abbreviation %q", abbr)
	}
	return p, nil
}

// ProvinceByName looks up a division by full name.
func ProvinceByName(name string) (Province, error) {
	for _, p := range provinces {
		if p.Name == name {
			return p, nil
		}
	}
	return Province{}, errors.New(errors.ErrCodeInvalidProvince, "unknown province name %q", name)
}

// ProvincesByKind returns the divisions of one kind, in code order.
func ProvincesByKind(kind ProvinceKind) []Province {
	var out []Province
	for _, p := range provinces {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// ValidProvince reports whether abbr names a division.
func ValidProvince(abbr string) bool {
	_, ok := provincesByAbbr[abbr]
	return ok
}

// RandomProvince picks a division uniformly.
func RandomProvince(rng *rand.Rand) Province {
	return provinces[rng.IntN(len(provinces))]
}
