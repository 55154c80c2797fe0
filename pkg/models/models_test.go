package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// ── Index Tests ──

func TestIndexUpdateApply(t *testing.T) {
	public := true
	name := "Renamed"

	idx := Index{ID: 1, Name: "Original", Description: "desc"}
	IndexUpdate{IsPublic: &public, Name: &name}.Apply(&idx)

	if !idx.IsPublic {
		t.Error("IsPublic should be true after update")
	}
	if idx.Name != "Renamed" {
		t.Errorf("Name: got %q, want %q", idx.Name, "Renamed")
	}
	if idx.Description != "desc" {
		t.Errorf("Description should be untouched, got %q", idx.Description)
	}
}

func TestIndexUpdateEmpty(t *testing.T) {
	if !(IndexUpdate{}).Empty() {
		t.Error("zero IndexUpdate should be empty")
	}
	f := false
	if (IndexUpdate{IsPublic: &f}).Empty() {
		t.Error("update with IsPublic set should not be empty")
	}
}

func TestGenerateResultFlattensIndex(t *testing.T) {
	res := GenerateResult{
		Index:  Index{ID: 7, Name: "AI Revolution Index", CreatedAt: time.Unix(0, 0).UTC()},
		Stocks: []Stock{{ID: 1, IndexID: 7, Symbol: "NVDA", Weight: 1}},
		Backtesting: map[Horizon]HorizonPerformance{
			Horizon1Y: {PortfolioReturn: 12.5},
		},
		Alpha: 2.5,
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("json.Marshal(GenerateResult) error: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"id":7`, `"name":"AI Revolution Index"`, `"stocks":[`, `"indexId":7`, `"1Y":{`, `"alpha":2.5`} {
		if !strings.Contains(got, want) {
			t.Errorf("encoded result missing %s: %s", want, got)
		}
	}
}

// ── Backtest Tests ──

func TestHorizonDays(t *testing.T) {
	tests := []struct {
		h    Horizon
		want int
	}{
		{Horizon1M, 30},
		{Horizon3M, 90},
		{Horizon1Y, 365},
		{Horizon("5Y"), 0},
	}
	for _, tt := range tests {
		if got := tt.h.Days(); got != tt.want {
			t.Errorf("%s.Days() = %d, want %d", tt.h, got, tt.want)
		}
	}
}

// ── Generated Tests ──

func TestGeneratedIndexCloneIsDeep(t *testing.T) {
	orig := &GeneratedIndex{
		IndexName: "X",
		Companies: []CompanyMatch{{Name: "A", Symbol: "A"}},
	}
	c := orig.Clone()
	c.Companies[0].Symbol = "B"
	if orig.Companies[0].Symbol != "A" {
		t.Error("Clone shares the companies slice with the original")
	}
	var nilIdx *GeneratedIndex
	if nilIdx.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
