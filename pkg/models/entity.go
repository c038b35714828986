package models

import (
	"strings"
	"time"
)

// EntityType classifies what the caller is looking up.
type EntityType string

const (
	EntityCompany EntityType = "company"
	EntityOther   EntityType = "other"
)

// ParseEntityType maps user input to an EntityType. Anything that is not
// "company" is treated as "other".
func ParseEntityType(s string) EntityType {
	if strings.EqualFold(strings.TrimSpace(s), string(EntityCompany)) {
		return EntityCompany
	}
	return EntityOther
}

// NewsItem is a single headline from the news feed. Date is the feed's
// publish date text, unnormalized.
type NewsItem struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Date   string `json:"date"`
	Source string `json:"source"`
}

// OpinionItem is a single public discussion post.
type OpinionItem struct {
	Text      string `json:"text"`
	Score     int    `json:"score"`
	URL       string `json:"url"`
	Date      string `json:"date"` // YYYY-MM-DD
	Subreddit string `json:"subreddit"`
	Source    string `json:"source"`
}

// EntityInfo is the composite record returned for one lookup.
type EntityInfo struct {
	Name        string          `json:"name"`
	Type        EntityType      `json:"type"`
	Financials  FinancialRecord `json:"financials"`
	News        []NewsItem      `json:"news"`
	Opinions    []OpinionItem   `json:"opinions"`
	LastUpdated time.Time       `json:"last_updated"`
	Sources     []string        `json:"sources"`
}

// NewEntityInfo returns an EntityInfo with empty, non-nil collections.
func NewEntityInfo(name string, typ EntityType, at time.Time) EntityInfo {
	return EntityInfo{
		Name:        name,
		Type:        typ,
		News:        []NewsItem{},
		Opinions:    []OpinionItem{},
		LastUpdated: at,
		Sources:     []string{},
	}
}
