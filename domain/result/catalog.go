// Package result holds the catalog of predicted result kinds and the bitmask
// used to request a subset of them.
package result

// Kind identifies one predicted result. The value doubles as the bit position
// in a Mask, so the order below must never change.
type Kind int

const (
	None Kind = iota

	ContribSSW
	ContribSSWGroup
	ContribSMW
	ContribSMWGroup
	ContribDModX
	ContribDModXGroup

	DModXPS
	DModXPSCombined
	PModXPS
	PModXCombinedPS

	TPS
	TcvPS
	TcvSEPS
	TcvSEDFPS

	T2RangePS
	XObsResPS
	XObsPredPS
	XVarPS
	XVarResPS

	SerrLPS
	SerrUPS

	YPredPS
	YPredCVConfIntPS
	YcvPS
	YcvSEPS
	YObsResPS
	YVarPS
	YVarResPS

	All
)

// Entry describes one catalog row.
type Entry struct {
	ID   Kind   `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

var catalog = []Entry{
	{ContribSSW, "cssw", "Predicted Contribution SSW"},
	{ContribSSWGroup, "csswgrp", "Predicted Contribution SSW Group"},
	{ContribSMW, "csmw", "Predicted Contribution SMW"},
	{ContribSMWGroup, "csmwgrp", "Predicted Contribution SMW Group"},
	{ContribDModX, "cdmodx", "Predicted DModX Contribution"},
	{ContribDModXGroup, "cdmodxgrp", "Predicted DModX Contribution Group"},

	{DModXPS, "dmodxps", "Predicted DModXPS"},
	{DModXPSCombined, "dmodxpscomb", "Predicted DModXCombinedPS"},
	{PModXPS, "pmodxps", "Predicted PModXPS"},
	{PModXCombinedPS, "pmodxcombps", "Predicted PModXCombinedPS"},

	{TPS, "tps", "Predicted TPS"},
	{TcvPS, "tcvps", "Predicted TcvPS"},
	{TcvSEPS, "tcvseps", "Predicted TcvSEPS"},
	{TcvSEDFPS, "tcvsedfps", "Predicted TcvSEDFPS"},

	{T2RangePS, "t2rangeps", "Predicted T2RangePS"},
	{XObsResPS, "xobsresps", "Predicted XObsResPS"},
	{XObsPredPS, "xobspredps", "Predicted XObsPredPS"},
	{XVarPS, "xvarps", "Predicted XVarPS"},
	{XVarResPS, "xvarresps", "Predicted XVarResPS"},

	{SerrLPS, "serrlps", "Predicted SerrLPS"},
	{SerrUPS, "serrups", "Predicted SerrUPS"},

	{YPredPS, "ypredps", "Predicted YPredPS"},
	{YPredCVConfIntPS, "ypredcvconfintps", "Predicted YPredCVConfIntPS"},
	{YcvPS, "ycvps", "Predicted YcvPS"},
	{YcvSEPS, "ycvseps", "Predicted YcvSEPS"},
	{YObsResPS, "yobsresps", "Predicted YObsResPS"},
	{YVarPS, "yvarps", "Predicted YVarPS"},
	{YVarResPS, "yvarresps", "Predicted YVarResPS"},

	{All, "all", "Output All Predicted Results"},
}

// Entries returns the catalog in declaration order, including the "all" pseudo entry.
func Entries() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Kinds returns every real result kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(catalog)-1)
	for _, e := range catalog {
		if e.ID != All {
			kinds = append(kinds, e.ID)
		}
	}
	return kinds
}

// ByID looks up an entry by kind.
func ByID(k Kind) (Entry, bool) {
	for _, e := range catalog {
		if e.ID == k {
			return e, true
		}
	}
	return Entry{}, false
}

// ByName looks up an entry by its short name.
func ByName(name string) (Entry, bool) {
	for _, e := range catalog {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// String returns the short name, or "none" for unknown kinds.
func (k Kind) String() string {
	if e, ok := ByID(k); ok {
		return e.Name
	}
	return "none"
}
