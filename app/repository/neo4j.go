package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"taskboard-go/app/models"
)

// Neo4jRepository stores tasks as (:Task) nodes. A child task is linked to
// its parent with a (child)-[:HAS_PARENT]->(parent) relationship; numeric
// ids come from a (:TaskCounter) node incremented inside the create
// transaction. Timestamps are stored as RFC3339 UTC strings and due_date
// as a Y-m-d string, so date comparisons in Cypher are plain string
// comparisons.
type Neo4jRepository struct {
	driver neo4j.DriverWithContext
	now    func() time.Time
}

// NewNeo4jRepository creates a repository on top of an initialized driver.
func NewNeo4jRepository(driver neo4j.DriverWithContext) *Neo4jRepository {
	return &Neo4jRepository{driver: driver, now: time.Now}
}

// Create persists a new pending task. When a parent id is given the parent
// is matched first, so linking to a missing or deleted parent fails the
// whole transaction.
func (r *Neo4jRepository) Create(ctx context.Context, input CreateTask) (*models.Task, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	now := r.now().UTC().Format(time.RFC3339)
	params := map[string]any{
		"title":       input.Title,
		"due_date":    input.DueDate,
		"description": input.Description,
		"now":         now,
	}

	query := "MERGE (ctr:TaskCounter {name: 'tasks'}) " +
		"ON CREATE SET ctr.value = 0 " +
		"SET ctr.value = ctr.value + 1 " +
		"WITH ctr.value AS id " +
		"CREATE (t:Task {id: id, title: $title, record_status: 'P', due_date: $due_date, " +
		"description: $description, created_at: $now, updated_at: $now}) " +
		"RETURN t {.*} AS task"

	if input.ParentID != nil {
		params["parent_id"] = *input.ParentID
		query = "MATCH (p:Task {id: $parent_id}) " +
			"WHERE p.deleted_at IS NULL " +
			"MERGE (ctr:TaskCounter {name: 'tasks'}) " +
			"ON CREATE SET ctr.value = 0 " +
			"SET ctr.value = ctr.value + 1 " +
			"WITH ctr.value AS id, p " +
			"CREATE (t:Task {id: id, title: $title, record_status: 'P', due_date: $due_date, " +
			"description: $description, created_at: $now, updated_at: $now}) " +
			"CREATE (t)-[:HAS_PARENT]->(p) " +
			"RETURN t {.*} AS task"
	}

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			if input.ParentID != nil {
				return nil, fmt.Errorf("parent task %d not found", *input.ParentID)
			}
			return nil, fmt.Errorf("task creation returned no record")
		}

		props, ok := res.Record().Values[0].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected record shape for created task")
		}
		task := taskFromProps(props, input.ParentID)
		return &task, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.Task), nil
}

// FindByID returns the task with the given id, excluding soft-deleted ones.
func (r *Neo4jRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) "+
				"WHERE t.deleted_at IS NULL "+
				"OPTIONAL MATCH (t)-[:HAS_PARENT]->(p:Task) "+
				"RETURN t {.*} AS task, p.id AS parent_id",
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, ErrNotFound
		}

		record := res.Record()
		props, ok := record.Values[0].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected record shape for task %d", id)
		}

		var parentID *int64
		if record.Values[1] != nil {
			pid := record.Values[1].(int64)
			parentID = &pid
		}

		task := taskFromProps(props, parentID)
		return &task, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.Task), nil
}

// List returns filtered top-level tasks with their children attached.
func (r *Neo4jRepository) List(ctx context.Context, filter ListFilter) ([]models.Task, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query, params := buildListQuery(filter)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		tasks := []models.Task{}
		for res.Next(ctx) {
			record := res.Record()
			props, ok := record.Values[0].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("unexpected record shape in task listing")
			}
			task := taskFromProps(props, nil)

			subs, _ := record.Values[1].([]any)
			for _, sub := range subs {
				childProps, ok := sub.(map[string]any)
				if !ok {
					continue
				}
				parentID := task.ID
				child := taskFromProps(childProps, &parentID)
				task.SubTasks = append(task.SubTasks, child)
			}

			tasks = append(tasks, task)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]models.Task), nil
}

// UpdateStatus sets the task's record_status, and with cascade also sets
// every direct non-deleted child, all inside one write transaction.
func (r *Neo4jRepository) UpdateStatus(ctx context.Context, id int64, status models.Status, cascade bool) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	now := r.now().UTC().Format(time.RFC3339)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) "+
				"WHERE t.deleted_at IS NULL "+
				"SET t.record_status = $status, t.updated_at = $now "+
				"RETURN t.id",
			map[string]any{"id": id, "status": string(status), "now": now},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, ErrNotFound
		}

		if cascade {
			_, err = tx.Run(ctx,
				"MATCH (c:Task)-[:HAS_PARENT]->(t:Task {id: $id}) "+
					"WHERE c.deleted_at IS NULL "+
					"SET c.record_status = $status, c.updated_at = $now",
				map[string]any{"id": id, "status": string(status), "now": now},
			)
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// SoftDelete marks the task and all of its descendants deleted in one
// write transaction.
func (r *Neo4jRepository) SoftDelete(ctx context.Context, id int64) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	now := r.now().UTC().Format(time.RFC3339)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) "+
				"WHERE t.deleted_at IS NULL "+
				"SET t.deleted_at = $now, t.updated_at = $now "+
				"RETURN t.id",
			map[string]any{"id": id, "now": now},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, ErrNotFound
		}

		// Descendants at any depth, not just direct children.
		_, err = tx.Run(ctx,
			"MATCH (d:Task)-[:HAS_PARENT*1..]->(t:Task {id: $id}) "+
				"WHERE d.deleted_at IS NULL "+
				"SET d.deleted_at = $now, d.updated_at = $now",
			map[string]any{"id": id, "now": now},
		)
		return nil, err
	})
	return err
}

// PurgeDeletedBefore permanently removes soft-deleted tasks older than the
// cutoff and returns how many were removed.
func (r *Neo4jRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task) "+
				"WHERE t.deleted_at IS NOT NULL AND t.deleted_at < $cutoff "+
				"DETACH DELETE t "+
				"RETURN count(*) AS purged",
			map[string]any{"cutoff": cutoff.UTC().Format(time.RFC3339)},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return int64(0), nil
		}
		return res.Record().Values[0].(int64), nil
	})
	if err != nil {
		return 0, err
	}

	return int(result.(int64)), nil
}

// taskFromProps maps a Cypher node projection onto the Task model.
func taskFromProps(props map[string]any, parentID *int64) models.Task {
	task := models.Task{ParentID: parentID}

	if v, ok := props["id"].(int64); ok {
		task.ID = v
	}
	if v, ok := props["title"].(string); ok {
		task.Title = v
	}
	if v, ok := props["record_status"].(string); ok {
		task.RecordStatus = models.Status(v)
	}
	if v, ok := props["due_date"].(string); ok {
		task.DueDate = v
	}
	if v, ok := props["description"].(string); ok {
		task.Description = v
	}
	if v, ok := props["created_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			task.CreatedAt = ts
		}
	}
	if v, ok := props["updated_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			task.UpdatedAt = ts
		}
	}
	if v, ok := props["deleted_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			task.DeletedAt = &ts
		}
	}

	return task
}
