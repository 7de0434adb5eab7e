package repository

import "strings"

// buildListQuery translates a ListFilter into the Cypher listing query and
// its parameter map. Top-level tasks are those with no outgoing HAS_PARENT
// relationship; children are collected per parent, ordered by id, and the
// parents come back ordered by due_date then id.
func buildListQuery(filter ListFilter) (string, map[string]any) {
	params := map[string]any{}

	conds := []string{"t.deleted_at IS NULL", "NOT (t)-[:HAS_PARENT]->(:Task)"}
	childConds := []string{"c.deleted_at IS NULL"}

	if filter.Search != "" {
		conds = append(conds, "toLower(t.title) CONTAINS toLower($search)")
		params["search"] = filter.Search
	}
	if filter.PendingOnly {
		conds = append(conds, "t.record_status = 'P'")
		childConds = append(childConds, "c.record_status = 'P'")
	}
	if filter.DueOn != "" {
		conds = append(conds, "t.due_date = $due_on")
		params["due_on"] = filter.DueOn
	}
	if filter.DueFrom != "" {
		conds = append(conds, "t.due_date >= $due_from")
		params["due_from"] = filter.DueFrom
	}
	if filter.DueTo != "" {
		conds = append(conds, "t.due_date <= $due_to")
		params["due_to"] = filter.DueTo
	}
	if filter.DueBefore != "" {
		conds = append(conds, "t.due_date < $due_before")
		params["due_before"] = filter.DueBefore
	}

	query := "MATCH (t:Task) " +
		"WHERE " + strings.Join(conds, " AND ") + " " +
		"OPTIONAL MATCH (c:Task)-[:HAS_PARENT]->(t) " +
		"WHERE " + strings.Join(childConds, " AND ") + " " +
		"WITH t, c ORDER BY c.id ASC " +
		"WITH t, collect(c {.*}) AS subs " +
		"ORDER BY t.due_date ASC, t.id ASC " +
		"RETURN t {.*} AS task, subs"

	return query, params
}
