package report

import (
	"fmt"
	"io"

	"github.com/Vincent-lau/schedbench/internal/harness"
	"github.com/olekukonko/tablewriter"
)

// PrintTable writes the mean and standard deviation of the headline metrics
// of every scenario as an ASCII table.
func PrintTable(writer io.Writer, rep *harness.Report) {
	table := tablewriter.NewWriter(writer)

	table.SetHeader([]string{"Scenario", "Tasks", "Trials", "Makespan", "Throughput", "Imbalance", "Utilization", "Energy"})

	for _, sr := range rep.Scenarios {
		if !sr.HasAverage {
			table.Append([]string{sr.Name, fmt.Sprintf("%d", sr.TaskCount), fmt.Sprintf("0/%d", len(sr.Trials)), "-", "-", "-", "-", "-"})
			continue
		}

		m, s := sr.Summary.Mean, sr.Summary.StdDev
		table.Append([]string{
			sr.Name,
			fmt.Sprintf("%d", sr.TaskCount),
			fmt.Sprintf("%d/%d", sr.N, len(sr.Trials)),
			fmt.Sprintf("%.2f ± %.2f", m.Makespan, s.Makespan),
			fmt.Sprintf("%.4f ± %.4f", m.Throughput, s.Throughput),
			fmt.Sprintf("%.4f ± %.4f", m.ImbalanceDegree, s.ImbalanceDegree),
			fmt.Sprintf("%.4f ± %.4f", m.ResourceUtilization, s.ResourceUtilization),
			fmt.Sprintf("%.1f ± %.1f", m.TotalEnergy, s.TotalEnergy),
		})
	}

	table.Render()
}
