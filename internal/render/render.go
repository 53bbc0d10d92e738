// Package render prints metrics and search results as terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/olekukonko/tablewriter"
)

var (
	riskColor    = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	healthyColor = color.New(color.FgGreen)
)

// BusFactorLabel classifies the share of commits held by the top contributor.
func BusFactorLabel(top1Percent int) string {
	switch {
	case top1Percent >= 80:
		return "High risk"
	case top1Percent >= 50:
		return "Moderate"
	default:
		return "Healthy"
	}
}

// AcceptanceLabel classifies the pull request acceptance rate.
func AcceptanceLabel(rate int) string {
	switch {
	case rate >= 70:
		return "Welcoming"
	case rate >= 40:
		return "Selective"
	default:
		return "Rarely merges"
	}
}

func colorize(label string) string {
	switch label {
	case "High risk", "Rarely merges":
		return riskColor.Sprint(label)
	case "Moderate", "Selective":
		return warnColor.Sprint(label)
	default:
		return healthyColor.Sprint(label)
	}
}

func optional(v *int, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d %s", *v, unit)
}

// Insights writes both metric sets as a two-column table.
func Insights(w io.Writer, repo domain.RepositoryIdentity, in domain.Insights) error {
	a, o := in.Aliveness, in.ContributionOutcomes
	table := tablewriter.NewWriter(w)
	table.Header([]string{repo.String(), "Value"})

	data := [][]string{
		{"Days since last commit", strconv.Itoa(a.DaysSinceLastCommit)},
		{"Commits (7d / 30d / 90d)", fmt.Sprintf("%d / %d / %d", a.CommitVelocity.Week, a.CommitVelocity.Month, a.CommitVelocity.Quarter)},
		{"Top contributor share", fmt.Sprintf("%d%% %s", a.BusFactor.Top1Percent, colorize(BusFactorLabel(a.BusFactor.Top1Percent)))},
		{"Top 3 contributors share", fmt.Sprintf("%d%%", a.BusFactor.Top3Percent)},
		{"Release cadence", optional(a.ReleaseCadence, "days")},
		{"Issues opened / closed (30d)", fmt.Sprintf("%d / %d", a.IssueChurn.Opened30, a.IssueChurn.Closed30)},
		{"Issues opened / closed (90d)", fmt.Sprintf("%d / %d", a.IssueChurn.Opened90, a.IssueChurn.Closed90)},
		{"PR acceptance rate", fmt.Sprintf("%d%% %s", o.PRAcceptanceRate, colorize(AcceptanceLabel(o.PRAcceptanceRate)))},
		{"Closed without merge", fmt.Sprintf("%d%%", o.ClosedWithoutMergeRate)},
		{"Time to first response", optional(o.TimeToFirstResponse, "hours")},
		{"Time to merge", optional(o.TimeToMerge, "hours")},
		{"External contributor share", fmt.Sprintf("%d%%", o.ExternalContributorShare)},
		{"PRs merged / closed / open", fmt.Sprintf("%d / %d / %d", o.TotalPRs.Merged, o.TotalPRs.Closed, o.TotalPRs.Open)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// Projects writes one search page as a table.
func Projects(w io.Writer, result *domain.SearchResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repository", "Stars", "Forks", "Language", "Last push", "Description"})

	var data [][]string
	for _, p := range result.Projects {
		data = append(data, []string{
			p.Owner + "/" + p.Name,
			strconv.Itoa(p.Stars),
			strconv.Itoa(p.Forks),
			p.Language,
			p.LastCommitDate.Format("2006-01-02"),
			truncate(p.Description, 60),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d repositories\n", len(result.Projects), result.Total)
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
