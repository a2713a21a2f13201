package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/govalues/decimal"
)

// filterQuery is the query string shared by order listings and summaries.
// Status parameters may be repeated or comma separated.
type filterQuery struct {
	Mode                 string    `form:"mode"`
	From                 time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To                   time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	FinancialStatus      []string  `form:"financial_status"`
	ReconciliationStatus []string  `form:"reconciliation_status"`
	MinDifference        string    `form:"min_difference"`
	Channel              string    `form:"channel"`
}

func (q filterQuery) toFilter() (domain.Filter, error) {
	f := domain.Filter{
		Mode:      domain.FilterMode(q.Mode),
		DateRange: domain.DateRange{From: q.From, To: q.To},
		Channel:   q.Channel,
	}

	for _, s := range splitValues(q.FinancialStatus) {
		st := domain.FinancialStatus(s)
		if err := st.Validate(); err != nil {
			return f, fmt.Errorf("%w: financial status %q", domain.ErrInvalidFilter, s)
		}
		f.FinancialStatus = append(f.FinancialStatus, st)
	}
	for _, s := range splitValues(q.ReconciliationStatus) {
		st := domain.ReconciliationStatus(s)
		if err := st.Validate(); err != nil {
			return f, fmt.Errorf("%w: reconciliation status %q", domain.ErrInvalidFilter, s)
		}
		f.ReconciliationStatus = append(f.ReconciliationStatus, st)
	}

	if q.MinDifference != "" {
		d, err := decimal.Parse(q.MinDifference)
		if err != nil {
			return f, fmt.Errorf("%w: min difference: %w", domain.ErrBadRequest, err)
		}
		f.MinDifference = &d
	}
	return f, nil
}

func splitValues(values []string) []string {
	var res []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				res = append(res, s)
			}
		}
	}
	return res
}
