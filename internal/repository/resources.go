package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

func (r *Repository) CreateResource(resource *domain.Resource) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO resources (name, hostname, mips, pes_number, ram, bw, size, vmm)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	args := []any{resource.Name, resource.Hostname, resource.MIPS, resource.PesNumber, resource.RAM, resource.BW, resource.Size, resource.VMM}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&resource.ID, &resource.CreatedAt, &resource.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetResourceByID(id int64) (*domain.Resource, error) {
	query := `
		SELECT name, hostname, mips, pes_number, ram, bw, size, vmm, created_at, version
		FROM resources WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	resource := &domain.Resource{
		ID: id,
	}

	dst := []any{&resource.Name, &resource.Hostname, &resource.MIPS, &resource.PesNumber, &resource.RAM, &resource.BW, &resource.Size, &resource.VMM, &resource.CreatedAt, &resource.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return resource, nil
}

func (r *Repository) GetAllResources() ([]*domain.Resource, error) {
	query := `
		SELECT id, name, hostname, mips, pes_number, ram, bw, size, vmm, created_at, version
		FROM resources ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		resource := &domain.Resource{}
		dst := []any{&resource.ID, &resource.Name, &resource.Hostname, &resource.MIPS, &resource.PesNumber, &resource.RAM, &resource.BW, &resource.Size, &resource.VMM, &resource.CreatedAt, &resource.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return resources, nil
}

func (r *Repository) DeleteResource(id int64) error {
	query := `
		DELETE FROM resources WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
