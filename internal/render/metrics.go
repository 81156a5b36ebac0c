package render

import (
	"sort"
	"strconv"

	"ops-console/internal/models"
	"ops-console/internal/workflow"
)

type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

type Dashboard struct {
	Cards    []Card `json:"cards"`
	ByStatus Table  `json:"by_status"`
}

// RenderMetrics lays out the dashboard snapshot. Orders-by-status rows follow
// the order lifecycle; statuses the console does not know go last, by name.
func (f Formatter) RenderMetrics(m models.MetricsSnapshot) Dashboard {
	d := Dashboard{
		Cards: []Card{
			{Title: "Total Orders", Value: strconv.Itoa(m.TotalOrders)},
			{Title: "Total Audit Logs", Value: strconv.Itoa(m.TotalAuditLogs)},
			{Title: "Avg Processing Time", Value: m.AvgProcessingTime.String() + "s"},
			{Title: "Success Rate", Value: m.SuccessRate.String() + "%"},
		},
		ByStatus: Table{Columns: []string{"Status", "Orders"}},
	}

	statuses := make([]string, 0, len(m.OrdersByStatus))
	for s := range m.OrdersByStatus {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool {
		ri := workflow.Rank(workflow.EntityOrder, workflow.Status(statuses[i]))
		rj := workflow.Rank(workflow.EntityOrder, workflow.Status(statuses[j]))
		if ri != rj {
			return ri < rj
		}
		return statuses[i] < statuses[j]
	})

	for _, s := range statuses {
		d.ByStatus.Rows = append(d.ByStatus.Rows, []string{
			workflow.Label(workflow.EntityOrder, workflow.Status(s)),
			strconv.Itoa(m.OrdersByStatus[s]),
		})
	}
	if len(d.ByStatus.Rows) == 0 {
		d.ByStatus.Empty = EmptyText(ViewOrders)
	}

	return d
}
