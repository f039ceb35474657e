package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

func (r *Repository) InsertSchedulingRun(run *domain.SchedulingRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO scheduling_runs (run_key, seed, mutation_probability, num_tasks, num_resources, best_time, makespan, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	// 种子以 uint64 生成，数据库中按位存为 BIGINT
	args := []any{run.RunKey, int64(run.Seed), run.MutationProbability, run.NumTasks, run.NumResources, run.BestTime, run.Makespan, run.CreatedBy}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&run.ID, &run.CreatedAt, &run.Version); err != nil {
		return err
	}

	for generation, bestTime := range run.History {
		query := `
			INSERT INTO scheduling_run_generations (scheduling_run_id, generation, best_time)
			VALUES ($1, $2, $3)
		`

		if _, err := tx.ExecContext(ctx, query, run.ID, generation, bestTime); err != nil {
			return err
		}
	}

	for _, a := range run.Assignments {
		query := `
			INSERT INTO scheduling_run_assignments (scheduling_run_id, position, task_id, resource_id)
			VALUES ($1, $2, $3, $4)
		`

		if _, err := tx.ExecContext(ctx, query, run.ID, a.Position, a.TaskID, a.ResourceID); err != nil {
			return err
		}
	}

	for _, e := range run.Executions {
		query := `
			INSERT INTO scheduling_run_executions (scheduling_run_id, task_id, resource_id, datacenter_id, host_id, status, cpu_time, start_time, finish_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		args := []any{run.ID, e.TaskID, e.ResourceID, e.DatacenterID, e.HostID, e.Status, e.CPUTime, e.StartTime, e.FinishTime}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// 列表只包含调度记录本身，不包含每一代的结果、分配方案和执行结果
func (r *Repository) listSchedulingRuns(where string, args ...any) ([]*domain.SchedulingRun, error) {
	query := `
		SELECT id, run_key, seed, mutation_probability, num_tasks, num_resources, best_time, makespan, created_by, created_at, version
		FROM scheduling_runs ` + where + ` ORDER BY id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.SchedulingRun, 0)
	for rows.Next() {
		run := &domain.SchedulingRun{}
		var seed int64
		dst := []any{&run.ID, &run.RunKey, &seed, &run.MutationProbability, &run.NumTasks, &run.NumResources, &run.BestTime, &run.Makespan, &run.CreatedBy, &run.CreatedAt, &run.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		run.Seed = uint64(seed)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

func (r *Repository) GetAllSchedulingRuns() ([]*domain.SchedulingRun, error) {
	return r.listSchedulingRuns("")
}

func (r *Repository) GetSchedulingRunsByUser(userID int64) ([]*domain.SchedulingRun, error) {
	return r.listSchedulingRuns("WHERE created_by = $1", userID)
}

func (r *Repository) GetSchedulingRunByID(id int64) (*domain.SchedulingRun, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT run_key, seed, mutation_probability, num_tasks, num_resources, best_time, makespan, created_by, created_at, version
		FROM scheduling_runs WHERE id = $1
	`

	run := &domain.SchedulingRun{
		ID:          id,
		History:     make([]float64, 0),
		Assignments: make([]domain.SchedulingRunAssignment, 0),
		Executions:  make([]domain.SchedulingRunExecution, 0),
	}

	var seed int64
	dst := []any{&run.RunKey, &seed, &run.MutationProbability, &run.NumTasks, &run.NumResources, &run.BestTime, &run.Makespan, &run.CreatedBy, &run.CreatedAt, &run.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	run.Seed = uint64(seed)

	// 每一代的最优值
	query = `
		SELECT best_time FROM scheduling_run_generations
		WHERE scheduling_run_id = $1 ORDER BY generation
	`
	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var bestTime float64
		if err := rows.Scan(&bestTime); err != nil {
			return nil, err
		}
		run.History = append(run.History, bestTime)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 分配方案
	query = `
		SELECT position, task_id, resource_id FROM scheduling_run_assignments
		WHERE scheduling_run_id = $1 ORDER BY position
	`
	assignmentRows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer assignmentRows.Close()

	for assignmentRows.Next() {
		var a domain.SchedulingRunAssignment
		if err := assignmentRows.Scan(&a.Position, &a.TaskID, &a.ResourceID); err != nil {
			return nil, err
		}
		run.Assignments = append(run.Assignments, a)
	}
	if err := assignmentRows.Err(); err != nil {
		return nil, err
	}

	// 模拟执行结果，按完成时间排列
	query = `
		SELECT task_id, resource_id, datacenter_id, host_id, status, cpu_time, start_time, finish_time
		FROM scheduling_run_executions
		WHERE scheduling_run_id = $1 ORDER BY finish_time, id
	`
	executionRows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer executionRows.Close()

	for executionRows.Next() {
		var e domain.SchedulingRunExecution
		dst := []any{&e.TaskID, &e.ResourceID, &e.DatacenterID, &e.HostID, &e.Status, &e.CPUTime, &e.StartTime, &e.FinishTime}
		if err := executionRows.Scan(dst...); err != nil {
			return nil, err
		}
		run.Executions = append(run.Executions, e)
	}
	if err := executionRows.Err(); err != nil {
		return nil, err
	}

	return run, nil
}
