package scanner

import (
	"sort"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// Rank orders opportunities in place: risk-free first, then by profit
// percentage descending. The sort is stable so equal entries keep their
// discovery order.
func Rank(opps []domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		ri, rj := opps[i].Risk == domain.RiskNone, opps[j].Risk == domain.RiskNone
		if ri != rj {
			return ri
		}
		return opps[i].ProfitPct > opps[j].ProfitPct
	})
}
