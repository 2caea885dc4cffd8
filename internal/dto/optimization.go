package dto

import "costlens/internal/core"

type SuggestionDto struct {
	Type           core.SuggestionType     `json:"type"`
	Priority       core.SuggestionPriority `json:"priority"`
	Provider       string                  `json:"provider"`
	Feature        string                  `json:"feature,omitempty"`
	Endpoint       string                  `json:"endpoint,omitempty"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Impact         map[string]float64      `json:"impact"`
	Recommendation string                  `json:"recommendation"`
}

type GroupedSuggestionsDto struct {
	High   []SuggestionDto `json:"high"`
	Medium []SuggestionDto `json:"medium"`
	Low    []SuggestionDto `json:"low"`
}

type SuggestionsDto struct {
	Days    int                   `json:"days"`
	Count   int                   `json:"count"`
	Data    []SuggestionDto       `json:"data"`
	Grouped GroupedSuggestionsDto `json:"grouped"`
}

type SuggestionQueryDto struct {
	Days int `form:"days" binding:"omitempty,min=1,max=90"`
}
