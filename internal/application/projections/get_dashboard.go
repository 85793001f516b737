package projections

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"convocation/internal/adapters/storage/submission"
	"convocation/internal/application/listutil"
	"convocation/internal/domain/application"
	domainSubmission "convocation/internal/domain/submission"
)

// Sortable dashboard columns.
const (
	SortSubmitted = "submitted"
	SortName      = "name"
)

// DashboardSortColumns lists the columns the dashboard may be sorted by.
var DashboardSortColumns = []string{SortSubmitted, SortName}

// RecentWindow is how far back "received this week" reaches.
const RecentWindow = 7 * 24 * time.Hour

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Params listutil.ListParams
	Now    time.Time
}

// DashboardStats are the summary cards above the application list.
// They always describe every application, regardless of the search.
type DashboardStats struct {
	Total            int
	OfficeHolders    int
	WithAchievements int
	ThisWeek         int
}

// DashboardRow is one application as listed on the dashboard.
type DashboardRow struct {
	application.Record
	Submitted   string
	HasDocument bool
}

// GetDashboardResult carries the dashboard view model.
type GetDashboardResult struct {
	Stats  DashboardStats
	Rows   []DashboardRow
	Page   listutil.PageInfo
	Params listutil.ListParams
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	SubmissionStore SubmissionStore
}

// QueryGetDashboard lists leadership applications for the admin dashboard.
// PRE: query.Params comes from listutil.ParseListParams
// POST: Rows holds at most Params.PerPage matching applications; Stats covers all applications
// INVARIANT: The default order is newest first
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	subs, err := deps.SubmissionStore.List(ctx, submission.ListFilter{Kind: domainSubmission.KindLeadership})
	if err != nil {
		return GetDashboardResult{}, fmt.Errorf("list applications: %w", err)
	}

	stats := DashboardStats{Total: len(subs)}
	matched := make([]domainSubmission.Submission, 0, len(subs))
	records := make(map[string]application.Record, len(subs))
	for _, s := range subs {
		r, err := application.FromSubmission(s)
		if err != nil {
			return GetDashboardResult{}, err
		}
		records[s.ID] = r
		if r.HoldsOffice() {
			stats.OfficeHolders++
		}
		if r.HasAchievements() {
			stats.WithAchievements++
		}
		if r.SubmittedWithin(query.Now, RecentWindow) {
			stats.ThisWeek++
		}
		if s.Matches(query.Params.Search) {
			matched = append(matched, s)
		}
	}

	sortSubmissions(matched, records, query.Params.SortParams)

	page := listutil.NewPageInfo(query.Params.Page, query.Params.PerPage, len(matched))
	visible := listutil.Slice(matched, page)
	rows := make([]DashboardRow, 0, len(visible))
	for _, s := range visible {
		r := records[s.ID]
		rows = append(rows, DashboardRow{
			Record:      r,
			Submitted:   application.FormatSubmitted(r.SubmittedAt),
			HasDocument: r.DocumentURL != "",
		})
	}

	params := query.Params
	params.Page = page.Page
	return GetDashboardResult{Stats: stats, Rows: rows, Page: page, Params: params}, nil
}

// sortSubmissions orders subs in place. The store already returns newest
// first, so only explicit requests reorder.
func sortSubmissions(subs []domainSubmission.Submission, records map[string]application.Record, p listutil.SortParams) {
	var less func(a, b domainSubmission.Submission) bool
	switch p.Sort {
	case SortName:
		less = func(a, b domainSubmission.Submission) bool {
			return strings.ToLower(records[a.ID].FullName()) < strings.ToLower(records[b.ID].FullName())
		}
	case SortSubmitted:
		less = func(a, b domainSubmission.Submission) bool {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
	default:
		return
	}
	sort.SliceStable(subs, func(i, j int) bool {
		if p.Dir == "desc" {
			return less(subs[j], subs[i])
		}
		return less(subs[i], subs[j])
	})
}
