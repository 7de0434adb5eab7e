package repository

import (
	"strings"
	"testing"
)

func TestBuildListQuery(t *testing.T) {
	t.Run("base query targets live top-level tasks", func(t *testing.T) {
		query, params := buildListQuery(ListFilter{})

		for _, want := range []string{
			"t.deleted_at IS NULL",
			"NOT (t)-[:HAS_PARENT]->(:Task)",
			"c.deleted_at IS NULL",
			"ORDER BY t.due_date ASC, t.id ASC",
		} {
			if !strings.Contains(query, want) {
				t.Errorf("query missing %q:\n%s", want, query)
			}
		}
		if len(params) != 0 {
			t.Errorf("expected no params, got %v", params)
		}
	})

	t.Run("search adds a case-insensitive title predicate", func(t *testing.T) {
		query, params := buildListQuery(ListFilter{Search: "trip"})

		if !strings.Contains(query, "toLower(t.title) CONTAINS toLower($search)") {
			t.Errorf("missing search predicate:\n%s", query)
		}
		if params["search"] != "trip" {
			t.Errorf("expected search param trip, got %v", params["search"])
		}
	})

	t.Run("pending restricts parents and children", func(t *testing.T) {
		query, _ := buildListQuery(ListFilter{PendingOnly: true})

		if !strings.Contains(query, "t.record_status = 'P'") {
			t.Errorf("missing parent status predicate:\n%s", query)
		}
		if !strings.Contains(query, "c.record_status = 'P'") {
			t.Errorf("missing child status predicate:\n%s", query)
		}
	})

	t.Run("date predicates are parameterized", func(t *testing.T) {
		query, params := buildListQuery(ListFilter{
			DueFrom:   "2024-06-03",
			DueTo:     "2024-06-09",
			DueBefore: "2024-06-05",
			DueOn:     "2024-06-05",
		})

		checks := map[string]string{
			"t.due_date = $due_on":     "due_on",
			"t.due_date >= $due_from":  "due_from",
			"t.due_date <= $due_to":    "due_to",
			"t.due_date < $due_before": "due_before",
		}
		for clause, param := range checks {
			if !strings.Contains(query, clause) {
				t.Errorf("missing clause %q:\n%s", clause, query)
			}
			if params[param] == "" {
				t.Errorf("missing param %s", param)
			}
		}
	})
}
