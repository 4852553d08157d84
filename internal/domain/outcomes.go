package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

type OwnerYear struct {
	OwnerID string
	Year    int
}

type OwnerPair struct {
	OwnerID    string
	OpponentID string
}

type OutcomeKind string

const (
	KindSeason OutcomeKind = "season"
	KindWeek   OutcomeKind = "week"
	KindDraft  OutcomeKind = "draft"
)

// PeriodOutcome records whether a season, one of its weeks or its draft
// loaded. Week is only set for KindWeek.
type PeriodOutcome struct {
	Kind OutcomeKind
	Year int
	Week int
	Err  error
}

func (o PeriodOutcome) OK() bool {
	return o.Err == nil
}

func (o PeriodOutcome) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind   OutcomeKind `json:"kind"`
		Year   int         `json:"year"`
		Week   int         `json:"week,omitempty"`
		Status string      `json:"status"`
		Error  string      `json:"error,omitempty"`
	}{Kind: o.Kind, Year: o.Year, Week: o.Week, Status: "ok"}
	if o.Err != nil {
		out.Status = "failed"
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}

func (o PeriodOutcome) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(o.Year))
	switch o.Kind {
	case KindWeek:
		b.WriteString(" week ")
		b.WriteString(strconv.Itoa(o.Week))
	case KindDraft:
		b.WriteString(" draft")
	}
	if o.Err != nil {
		b.WriteString(": ")
		b.WriteString(o.Err.Error())
	}
	return b.String()
}

type Outcomes []PeriodOutcome

// Record adds the outcome of a season (week 0) or of one of its weeks.
func (o *Outcomes) Record(year, week int, err error) {
	kind := KindWeek
	if week == 0 {
		kind = KindSeason
	}
	*o = append(*o, PeriodOutcome{Kind: kind, Year: year, Week: week, Err: err})
}

func (o *Outcomes) RecordDraft(year int, err error) {
	*o = append(*o, PeriodOutcome{Kind: KindDraft, Year: year, Err: err})
}

func (o Outcomes) Failed() Outcomes {
	var out Outcomes
	for _, p := range o {
		if !p.OK() {
			out = append(out, p)
		}
	}
	return out
}

func (o Outcomes) Succeeded() Outcomes {
	var out Outcomes
	for _, p := range o {
		if p.OK() {
			out = append(out, p)
		}
	}
	return out
}
